package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamefriends/backend/internal/auth"
	"github.com/gamefriends/backend/internal/models"
	"github.com/gamefriends/backend/internal/presence"
)

type stubAuthn struct {
	user string
	err  error
}

func (s stubAuthn) Authenticate(context.Context, string) (string, error) {
	return s.user, s.err
}

type stubPresence struct {
	updates [][2]string
	online  []models.FriendPresence
	err     error
}

func (s *stubPresence) UpdateStatus(_ context.Context, user, ip string) error {
	if s.err != nil {
		return s.err
	}
	s.updates = append(s.updates, [2]string{user, ip})
	return nil
}

func (s *stubPresence) OnlineFriends(context.Context, string) ([]models.FriendPresence, error) {
	return s.online, s.err
}

func TestPresenceHandlerStatus(t *testing.T) {
	svc := &stubPresence{}
	handler := PresenceHandler{Auth: stubAuthn{user: "alice"}, Presence: svc}

	req := httptest.NewRequest(http.MethodPost, "/status", bytes.NewReader([]byte(`{"ip":"1.2.3.4"}`)))
	rec := httptest.NewRecorder()

	handler.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected response %v", resp)
	}

	if len(svc.updates) != 1 || svc.updates[0] != [2]string{"alice", "1.2.3.4"} {
		t.Fatalf("unexpected updates %v", svc.updates)
	}
}

func TestPresenceHandlerStatusFailures(t *testing.T) {
	body := []byte(`{"ip":"1.2.3.4"}`)

	cases := []struct {
		name       string
		handler    PresenceHandler
		method     string
		body       []byte
		wantStatus int
	}{
		{"wrongMethod", PresenceHandler{Auth: stubAuthn{user: "alice"}, Presence: &stubPresence{}}, http.MethodGet, body, http.StatusMethodNotAllowed},
		{"unauthorized", PresenceHandler{Auth: stubAuthn{err: auth.ErrUnauthorized}, Presence: &stubPresence{}}, http.MethodPost, body, http.StatusUnauthorized},
		{"missingAuth", PresenceHandler{Presence: &stubPresence{}}, http.MethodPost, body, http.StatusInternalServerError},
		{"missingService", PresenceHandler{Auth: stubAuthn{user: "alice"}}, http.MethodPost, body, http.StatusInternalServerError},
		{"badJSON", PresenceHandler{Auth: stubAuthn{user: "alice"}, Presence: &stubPresence{}}, http.MethodPost, []byte("{"), http.StatusBadRequest},
		{"emptyIP", PresenceHandler{Auth: stubAuthn{user: "alice"}, Presence: &stubPresence{err: presence.ErrEmptyAddress}}, http.MethodPost, []byte(`{"ip":""}`), http.StatusBadRequest},
		{"internal", PresenceHandler{Auth: stubAuthn{user: "alice"}, Presence: &stubPresence{err: errors.New("boom")}}, http.MethodPost, body, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/status", bytes.NewReader(tc.body))
			rec := httptest.NewRecorder()

			tc.handler.Status(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestPresenceHandlerOnline(t *testing.T) {
	lastSeen := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc := &stubPresence{online: []models.FriendPresence{
		{Name: "bob", IP: "1.2.3.4", LastSeen: &lastSeen},
	}}
	handler := PresenceHandler{Auth: stubAuthn{user: "alice"}, Presence: svc}

	req := httptest.NewRequest(http.MethodGet, "/friends/online", nil)
	rec := httptest.NewRecorder()

	handler.Online(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp onlineFriendsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.OnlineFriends) != 1 {
		t.Fatalf("expected one online friend, got %+v", resp.OnlineFriends)
	}
	got := resp.OnlineFriends[0]
	if got.Name != "bob" || got.IP != "1.2.3.4" || !got.LastSeen.Equal(lastSeen) {
		t.Fatalf("unexpected online friend %+v", got)
	}
}

func TestPresenceHandlerOnlineEmptyList(t *testing.T) {
	handler := PresenceHandler{Auth: stubAuthn{user: "alice"}, Presence: &stubPresence{}}

	req := httptest.NewRequest(http.MethodGet, "/friends/online", nil)
	rec := httptest.NewRecorder()

	handler.Online(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	// Clients iterate the list; it must serialize as [] rather than null.
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"online_friends":[]`)) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestPresenceHandlerOnlineFailures(t *testing.T) {
	cases := []struct {
		name       string
		handler    PresenceHandler
		method     string
		wantStatus int
	}{
		{"wrongMethod", PresenceHandler{Auth: stubAuthn{user: "alice"}, Presence: &stubPresence{}}, http.MethodPost, http.StatusMethodNotAllowed},
		{"unauthorized", PresenceHandler{Auth: stubAuthn{err: auth.ErrUnauthorized}, Presence: &stubPresence{}}, http.MethodGet, http.StatusUnauthorized},
		{"missingService", PresenceHandler{Auth: stubAuthn{user: "alice"}}, http.MethodGet, http.StatusInternalServerError},
		{"internal", PresenceHandler{Auth: stubAuthn{user: "alice"}, Presence: &stubPresence{err: errors.New("boom")}}, http.MethodGet, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/friends/online", nil)
			rec := httptest.NewRecorder()

			tc.handler.Online(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}
