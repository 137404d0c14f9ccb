package echoapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stagedock/stagedock/core/document"
	"github.com/stagedock/stagedock/core/stageplot"
	"github.com/stagedock/stagedock/core/user"
	emailsvc "github.com/stagedock/stagedock/services/email"
)

func Test_documentApi_crud(t *testing.T) {
	app, svcs := setup(t)

	owner := createUser(t, svcs.userRepo, "Owner", "bandowner", "owner@test.io", "", []string{user.RoleArtist}, true)
	stranger := createUser(t, svcs.userRepo, "Stranger", "stranger1", "stranger@test.io", "", []string{user.RoleArtist}, true)
	admin := createUser(t, svcs.userRepo, "Admin", "theadmin", "admin@test.io", "", []string{user.RoleAdmin}, true)

	ownerToken := getToken(t, owner)
	strangerToken := getToken(t, stranger)
	adminToken := getToken(t, admin)

	var doc document.Document

	t.Run("create", func(t *testing.T) {
		body := []byte(`{"name": "Fall Tour", "venue": "Mega Hall"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/documents", ownerToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
			t.Fatalf("unmarshalling response failed: %v", err)
		}
		if doc.OwnerID != owner.ID {
			t.Errorf("failed! ownerID = %v; want %v", doc.OwnerID, owner.ID)
		}
	})

	t.Run("create requires name", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/documents", ownerToken, []byte(`{}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
		}
	})

	tests := []httpTest{
		{
			name: "owner sees own", method: http.MethodGet, path: "/v1/documents", token: ownerToken,
			wantCode: http.StatusOK,
		},
		{
			name: "stranger sees none", method: http.MethodGet, path: "/v1/documents", token: strangerToken,
			wantCode: http.StatusOK, wantData: []byte(`[]`),
		},
		{
			name: "auth required", method: http.MethodGet, path: "/v1/documents",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("stranger gets 404 on detail", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/documents/"+doc.ID, strangerToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("admin reads any", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/documents/"+doc.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
	})

	t.Run("update", func(t *testing.T) {
		body := []byte(`{"venue": "Tiny Club"}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/documents/"+doc.ID, ownerToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var updated document.Document
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshalling response failed: %v", err)
		}
		if updated.Venue.String != "Tiny Club" {
			t.Errorf("failed! venue = %v", updated.Venue.String)
		}
		if updated.Name != "Fall Tour" {
			t.Errorf("failed! name changed to %v", updated.Name)
		}
	})

	t.Run("delete cascades to items", func(t *testing.T) {
		item := createItem(t, svcs.itemRepo, doc.ID, stageplot.IconMicShort, 1)

		req, rec := newAuthRequest(http.MethodDelete, "/v1/documents/"+doc.ID, ownerToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		if _, err := svcs.itemSvc.GetByID(req.Context(), item.ID); err == nil {
			t.Error("failed! item survived document delete")
		}
	})
}

func Test_documentApi_export(t *testing.T) {
	app, svcs := setup(t)

	owner := createUser(t, svcs.userRepo, "Owner", "bandowner", "owner@test.io", "", []string{user.RoleArtist}, true)
	token := getToken(t, owner)

	doc := createDocument(t, svcs.docRepo, owner.ID, "Fall Tour")
	createItem(t, svcs.itemRepo, doc.ID, stageplot.IconMicShort, 1)
	createItem(t, svcs.itemRepo, doc.ID, stageplot.IconBass, 2)

	req, rec := newAuthRequest(http.MethodGet, "/v1/documents/"+doc.ID+"/export", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("failed! content-type = %v", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "fall-tour.txt") {
		t.Errorf("failed! content-disposition = %v", cd)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "CHANNEL LIST") || !strings.Contains(body, "EQUIPMENT") {
		t.Errorf("failed! unexpected export body:\n%s", body)
	}
	if !strings.Contains(body, "Prepared by: Owner <owner@test.io>") {
		t.Errorf("failed! export body missing author line:\n%s", body)
	}

	t.Run("email to owner by default", func(t *testing.T) {
		emailsvc.ClearSentMessages()
		req, rec := newAuthRequest(http.MethodPost, "/v1/documents/"+doc.ID+"/export/email", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		if len(emailsvc.SentMessages) != 1 {
			t.Fatalf("failed! sent %d messages; want 1", len(emailsvc.SentMessages))
		}
		msg := emailsvc.SentMessages[0]
		if len(msg.To) != 1 || msg.To[0].Address != owner.Email {
			t.Errorf("failed! recipients = %v", msg.To)
		}
		if len(msg.Attachments) != 1 || msg.Attachments[0].Filename != "fall-tour.txt" {
			t.Errorf("failed! attachments = %+v", msg.Attachments)
		}
	})

	t.Run("email to explicit recipients", func(t *testing.T) {
		emailsvc.ClearSentMessages()
		reqBody := []byte(`{"to": ["foh@venue.io"]}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/documents/"+doc.ID+"/export/email", token, reqBody)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		if len(emailsvc.SentMessages) != 1 {
			t.Fatalf("failed! sent %d messages; want 1", len(emailsvc.SentMessages))
		}
		if to := emailsvc.SentMessages[0].To; len(to) != 1 || to[0].Address != "foh@venue.io" {
			t.Errorf("failed! recipients = %v", to)
		}
	})

	t.Run("email rejects bad address", func(t *testing.T) {
		reqBody := []byte(`{"to": ["not-an-email"]}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/documents/"+doc.ID+"/export/email", token, reqBody)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
	})
}
