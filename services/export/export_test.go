package exportsvc

import (
	"bytes"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/stagedock/stagedock/core/document"
	"github.com/stagedock/stagedock/core/stageplot"
	"github.com/stagedock/stagedock/core/user"
	emailsvc "github.com/stagedock/stagedock/services/email"
)

func testOwner() user.User {
	return user.User{ID: "usr1", Name: "Jane Artist", Email: "jane@test.io"}
}

func testDoc() document.Document {
	return document.Document{
		ID:        "doc1",
		OwnerID:   "usr1",
		Name:      "Summer Tour",
		Venue:     null.StringFrom("The Blue Room"),
		EventDate: null.TimeFrom(time.Date(2021, 7, 9, 0, 0, 0, 0, time.UTC)),
	}
}

func testItems() []stageplot.Item {
	return []stageplot.Item{
		{ID: "i1", DocumentID: "doc1", IconType: stageplot.IconMicShort, MicType: null.StringFrom("SM58"), ChannelNumber: null.IntFrom(2), ProvidedBy: stageplot.ProvidedByVenue},
		{ID: "i2", DocumentID: "doc1", IconType: stageplot.IconAcoustic, Label: null.StringFrom("Nylon"), ChannelNumber: null.IntFrom(1), ProvidedBy: stageplot.ProvidedByArtist},
		{ID: "i3", DocumentID: "doc1", IconType: stageplot.IconMonitorWedge, ProvidedBy: stageplot.ProvidedByVenue},
		{ID: "i4", DocumentID: "doc1", IconType: stageplot.IconMonitorWedge, ProvidedBy: stageplot.ProvidedByVenue},
	}
}

func TestTextExporter(t *testing.T) {
	exp := NewTextExporter()
	assert.Equal(t, "summer-tour.txt", exp.Filename(testDoc()))

	var buff bytes.Buffer
	err := exp.Export(&buff, testDoc(), testOwner(), testItems())
	require.NoError(t, err)
	out := buff.String()

	assert.True(t, strings.HasPrefix(out, "Summer Tour\n"))
	assert.Contains(t, out, "Prepared by: Jane Artist <jane@test.io>")
	assert.Contains(t, out, "Venue: The Blue Room")
	assert.Contains(t, out, "Date: Fri, 09 Jul 2021")
	assert.Contains(t, out, "CHANNEL LIST")
	assert.Contains(t, out, "EQUIPMENT")
	assert.Contains(t, out, "2x")

	// channel rows come out sorted by channel number
	nylonIdx := strings.Index(out, "Nylon")
	micIdx := strings.Index(out, "Mic (Short Stand)")
	require.GreaterOrEqual(t, nylonIdx, 0)
	require.GreaterOrEqual(t, micIdx, 0)
	assert.Less(t, nylonIdx, micIdx)
}

func TestTextExporterEmpty(t *testing.T) {
	var buff bytes.Buffer
	err := NewTextExporter().Export(&buff, testDoc(), user.User{}, nil)
	require.NoError(t, err)
	assert.Contains(t, buff.String(), "(no channels assigned)")
	assert.Contains(t, buff.String(), "(none)")
}

func TestEmailPlot(t *testing.T) {
	emailsvc.ClearSentMessages()
	mailSvc := emailsvc.NewConsoleServiceMock()

	err := EmailPlot(mailSvc, NewTextExporter(), testDoc(), testOwner(), testItems(), mail.Address{Address: "foh@example.com"})
	require.NoError(t, err)

	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, "Stage plot: Summer Tour", msg.Subject)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "summer-tour.txt", msg.Attachments[0].Filename)
}
