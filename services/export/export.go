package exportsvc

import (
	"bytes"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"text/tabwriter"

	"github.com/stagedock/stagedock/core"
	"github.com/stagedock/stagedock/core/document"
	"github.com/stagedock/stagedock/core/stageplot"
	"github.com/stagedock/stagedock/core/user"
)

// PlotExporter renders a document, its items and the author's profile into
// a shareable format.
type PlotExporter interface {
	ContentType() string
	Filename(doc document.Document) string
	Export(w io.Writer, doc document.Document, owner user.User, items []stageplot.Item) error
}

type textExporter struct{}

var _ PlotExporter = (*textExporter)(nil)

func NewTextExporter() PlotExporter {
	return &textExporter{}
}

func (e textExporter) ContentType() string { return "text/plain; charset=utf-8" }

func (e textExporter) Filename(doc document.Document) string {
	name := core.CleanString(doc.Name, true)
	name = strings.ReplaceAll(name, " ", "-")
	if name == "" {
		name = "stage-plot"
	}
	return name + ".txt"
}

func (e textExporter) Export(w io.Writer, doc document.Document, owner user.User, items []stageplot.Item) error {
	if err := e.writeHeader(w, doc, owner); err != nil {
		return err
	}
	if err := e.writeChannelList(w, items); err != nil {
		return err
	}
	return e.writeEquipment(w, items)
}

func (e textExporter) writeHeader(w io.Writer, doc document.Document, owner user.User) error {
	if _, err := fmt.Fprintf(w, "%s\n", doc.Name); err != nil {
		return err
	}
	if owner.Name != "" {
		author := owner.Name
		if owner.Email != "" {
			author += " <" + owner.Email + ">"
		}
		if _, err := fmt.Fprintf(w, "Prepared by: %s\n", author); err != nil {
			return err
		}
	}
	if doc.Venue.Valid && doc.Venue.String != "" {
		if _, err := fmt.Fprintf(w, "Venue: %s\n", doc.Venue.String); err != nil {
			return err
		}
	}
	if doc.EventDate.Valid {
		if _, err := fmt.Fprintf(w, "Date: %s\n", doc.EventDate.Time.Format("Mon, 02 Jan 2006")); err != nil {
			return err
		}
	}
	if doc.Notes.Valid && doc.Notes.String != "" {
		if _, err := fmt.Fprintf(w, "Notes: %s\n", doc.Notes.String); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\n")
	return err
}

func (e textExporter) writeChannelList(w io.Writer, items []stageplot.Item) error {
	channeled := stageplot.ChannelItems(items)
	if _, err := fmt.Fprint(w, "CHANNEL LIST\n"); err != nil {
		return err
	}
	if len(channeled) == 0 {
		_, err := fmt.Fprint(w, "(no channels assigned)\n\n")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range channeled {
		mic := ""
		if it.MicType.Valid {
			mic = it.MicType.String
		}
		notes := ""
		if it.Notes.Valid {
			notes = it.Notes.String
		}
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", it.ChannelNumber.Int, it.EffectiveLabel(), mic, notes); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\n")
	return err
}

func (e textExporter) writeEquipment(w io.Writer, items []stageplot.Item) error {
	rows := stageplot.ConsolidateEquipment(items)
	if _, err := fmt.Fprint(w, "EQUIPMENT\n"); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprint(w, "(none)\n")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		provided := ""
		if row.ProvidedBy != stageplot.ProvidedByUnspecified {
			provided = string(row.ProvidedBy)
		}
		if _, err := fmt.Fprintf(tw, "%dx\t%s\t%s\n", row.Count, row.Label, provided); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// EmailPlot renders the plot with the given exporter and emails it as an
// attachment to the recipients.
func EmailPlot(emailSvc core.EmailService, exp PlotExporter, doc document.Document, owner user.User, items []stageplot.Item, to ...mail.Address) error {
	var buff bytes.Buffer
	if err := exp.Export(&buff, doc, owner, items); err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:      to,
		Subject: "Stage plot: " + doc.Name,
		BodyStr: "Please find the stage plot for " + doc.Name + " attached.",
	}
	if err := msg.Attach(&buff, exp.Filename(doc), exp.ContentType()); err != nil {
		return err
	}
	emailSvc.SendMessages(msg)
	return nil
}
