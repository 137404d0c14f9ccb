package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/stagedock/stagedock/core"
	"github.com/stagedock/stagedock/core/document"
	"github.com/stagedock/stagedock/core/stageplot"
	"github.com/stagedock/stagedock/core/user"
	emailsvc "github.com/stagedock/stagedock/services/email"
	exportsvc "github.com/stagedock/stagedock/services/export"
	dummydb "github.com/stagedock/stagedock/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testServices struct {
	userSvc *user.Service
	docSvc  *document.Service
	itemSvc *stageplot.Service

	userRepo user.Repository
	docRepo  document.Repository
	itemRepo stageplot.Repository
}

func setup(t *testing.T) (Server, *testServices) {
	t.Helper()
	core.Conf.Debug = false
	core.Conf.TestMode = true
	emailsvc.ClearSentMessages()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	svcs := &testServices{
		userRepo: dummydb.NewUserRepository(db),
		docRepo:  dummydb.NewDocumentRepository(db),
		itemRepo: dummydb.NewItemRepository(db),
	}
	mailSvc := emailsvc.NewConsoleServiceMock()
	svcs.userSvc = user.NewService(svcs.userRepo, mailSvc)
	svcs.docSvc = document.NewService(svcs.docRepo)
	svcs.itemSvc = stageplot.NewService(svcs.itemRepo, core.Conf)

	app := NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         testLogger{t},
			UserSvc:        svcs.userSvc,
			DocumentSvc:    svcs.docSvc,
			ItemSvc:        svcs.itemSvc,
			Exporter:       exportsvc.NewTextExporter(),
			EmailSvc:       mailSvc,
		},
	)
	return app, svcs
}

type testLogger struct {
	t *testing.T
}

func (l testLogger) Enable(bool) {}
func (l testLogger) Debug(msg string, args ...interface{}) {
	l.t.Logf("DEBUG %s %v", msg, args)
}
func (l testLogger) Info(msg string, args ...interface{}) {
	l.t.Logf("INFO %s %v", msg, args)
}
func (l testLogger) Warn(msg string, args ...interface{}) {
	l.t.Logf("WARN %s %v", msg, args)
}
func (l testLogger) Error(msg string, args ...interface{}) {
	l.t.Logf("ERROR %s %v", msg, args)
}
func (l testLogger) Fatal(msg string, args ...interface{}) {
	l.t.Fatalf("FATAL %s %v", msg, args)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func createUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  &isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createDocument(t *testing.T, repo document.Repository, ownerID, name string) document.Document {
	t.Helper()
	now := time.Now().UTC()
	doc, err := repo.CreateDocument(context.Background(), document.Document{
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createDocument() failed: %v", err)
	}
	return doc
}

func createItem(t *testing.T, repo stageplot.Repository, docID string, icon stageplot.IconType, channel int) stageplot.Item {
	t.Helper()
	now := time.Now().UTC()
	item := stageplot.Item{
		DocumentID: docID,
		IconType:   icon,
		ProvidedBy: stageplot.ProvidedByUnspecified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if channel > 0 {
		item.ChannelNumber = null.IntFrom(channel)
	}
	item, err := repo.CreateItem(context.Background(), item)
	if err != nil {
		t.Fatalf("createItem() failed: %v", err)
	}
	return item
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
