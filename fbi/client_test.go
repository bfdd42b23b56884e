package fbi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larsmn/bibtrack/session"
)

const manifestationJSON = `{"data":{"manifestation":{
	"pid":"870970-basis:12345678",
	"titles":{"full":["Den store bog"]},
	"creators":[{"display":"Anders And"}],
	"cover":{"thumbnail":"https://covers.example/thumb.jpg"},
	"materialTypes":[{"materialTypeSpecific":{"display":"bog"}}]
}}}`

func newSession(t *testing.T, serverURL string) *session.Session {
	t.Helper()
	sess := session.New(serverURL, zerolog.Nop())
	sess.SetState(session.State{}.
		WithLibraryToken("lib-tok").
		WithUserToken("user-tok").
		WithAccessToken("acc-tok"))
	return sess
}

func TestManifestation(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "Bearer user-tok", r.Header.Get("Authorization"))

		var req struct {
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "87654321", req.Variables["faust"])

		fmt.Fprint(w, manifestationJSON)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, newSession(t, server.URL), zerolog.Nop())

	m, ok := client.Manifestation(context.Background(), "87654321")
	require.True(t, ok)
	assert.Equal(t, 1, requests)
	assert.Equal(t, "870970-basis:12345678", m.PID)
	assert.Equal(t, "Den store bog", m.Title)
	assert.Equal(t, "Anders And", m.Creator)
	assert.Equal(t, "bog", m.Type)
	assert.Equal(t, "https://covers.example/thumb.jpg", m.Thumbnail)
}

func TestManifestationRetriesEmptyWithLibraryToken(t *testing.T) {
	var bearers []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearers = append(bearers, r.Header.Get("Authorization"))
		if len(bearers) == 1 {
			fmt.Fprint(w, `{"data":{"manifestation":null}}`)
			return
		}
		fmt.Fprint(w, manifestationJSON)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, newSession(t, server.URL), zerolog.Nop())

	m, ok := client.Manifestation(context.Background(), "87654321")
	require.True(t, ok)
	assert.Equal(t, []string{"Bearer user-tok", "Bearer lib-tok"}, bearers)
	assert.Equal(t, "Den store bog", m.Title)
}

func TestManifestationEmptyTwiceGivesUp(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"data":{"manifestation":null}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, newSession(t, server.URL), zerolog.Nop())

	_, ok := client.Manifestation(context.Background(), "87654321")
	assert.False(t, ok)
	assert.Equal(t, 2, requests, "an empty payload is retried exactly once")
}

func TestManifestationErrorDoesNotRetry(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, newSession(t, server.URL), zerolog.Nop())

	_, ok := client.Manifestation(context.Background(), "87654321")
	assert.False(t, ok)
	assert.Equal(t, 1, requests, "a transport failure is not retried")
}

func TestBranchName(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "Bearer acc-tok", r.Header.Get("Authorization"))

		var req struct {
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "101", req.Variables["q"], "compound ids keep only the last segment")

		fmt.Fprint(w, `{"data":{"branches":{"hitcount":1,"result":[{"name":"Hovedbiblioteket"}]}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, newSession(t, server.URL), zerolog.Nop())

	name := client.BranchName(context.Background(), "710100-101")
	assert.Equal(t, "Hovedbiblioteket", name)

	// Cached under the stripped id: neither form triggers another lookup.
	assert.Equal(t, "Hovedbiblioteket", client.BranchName(context.Background(), "101"))
	assert.Equal(t, "Hovedbiblioteket", client.BranchName(context.Background(), "710100-101"))
	assert.Equal(t, 1, requests)
}

func TestBranchNameAmbiguous(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"branches":{"hitcount":7,"result":[{"name":"A"},{"name":"B"}]}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, newSession(t, server.URL), zerolog.Nop())

	assert.Equal(t, "101", client.BranchName(context.Background(), "710100-101"),
		"an ambiguous lookup falls back to the stripped id")
}

func TestUserStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer acc-tok", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"data":{"user":{
			"name":"Jens Jensen",
			"mail":"jens@example.dk",
			"municipalityAgencyId":"775100",
			"debt":[{"title":"Gebyr","amount":"50,00"}],
			"loans":[{"loanId":"L1","dueDate":"2026-09-20","title":"Bogen"}],
			"orders":[{"orderId":"O1","status":"AVAILABLE_FOR_PICKUP","title":"Ordren"}]
		}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, newSession(t, server.URL), zerolog.Nop())

	st, err := client.UserStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jens Jensen", st.Name)
	require.Len(t, st.Loans, 1)
	assert.Equal(t, "L1", st.Loans[0].LoanID)
	require.Len(t, st.Orders, 1)
	assert.Equal(t, OrderStatusReady, st.Orders[0].Status)
}

func TestUserStatusMissingUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"user":null}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, newSession(t, server.URL), zerolog.Nop())

	_, err := client.UserStatus(context.Background())
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestStatusLoanMaterialFallback(t *testing.T) {
	loan := StatusLoan{Title: "Fallback-titel", Creator: "Fallback-forfatter"}
	m := loan.Material()
	assert.Equal(t, "Fallback-titel", m.Title)
	assert.Equal(t, "Fallback-forfatter", m.Creator)
	assert.Empty(t, m.PID)
}
