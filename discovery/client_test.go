package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directoryPage = `<html><head>
<script>var other = 1;</script>
<script>var libraries = {"folk":[
	{"name":"Aarhus Kommunes Biblioteker","branchId":"775100","registrationUrl":"https://www.aakb.dk/register?next=x"},
	{"name":"Københavns Biblioteker","branchId":"710100","registrationUrl":"https://bibliotek.kk.dk/opret"},
	{"name":"Gammelby Bibliotek","branchId":"999999","registrationUrl":"https://login.bib.dk/gatewayf/create?agency=999999"},
	{"name":"Ødelagt","branchId":"888888","registrationUrl":"not a url"}
]};</script>
</head><body></body></html>`

func TestLibraries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "/user/me/dashboard", r.URL.Query().Get("current-path"))
		fmt.Fprint(w, directoryPage)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", zerolog.Nop())
	dir, err := client.Libraries(context.Background())
	require.NoError(t, err)

	require.Len(t, dir.Supported, 2)
	assert.Equal(t, Library{
		Name:   "Aarhus Kommunes Biblioteker",
		Host:   "https://www.aakb.dk",
		Agency: "775100",
	}, dir.Supported[0])
	assert.Equal(t, "https://bibliotek.kk.dk", dir.Supported[1].Host)

	// Gateway portals are listed but unsupported; broken entries are
	// dropped.
	require.Len(t, dir.Excluded, 1)
	assert.Equal(t, "999999", dir.Excluded[0].Agency)
}

func TestLibrariesNoScript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing here</body></html>`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", zerolog.Nop())
	_, err := client.Libraries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no libraries script")
}

func TestMunicipality(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("x"))
		assert.NotEmpty(t, r.URL.Query().Get("y"))
		fmt.Fprint(w, `{"navn":"Aarhus"}`)
	}))
	defer server.Close()

	client := NewClient("", server.URL, zerolog.Nop())
	name, err := client.Municipality(context.Background(), 10.2, 56.15)
	require.NoError(t, err)
	assert.Equal(t, "Aarhus", name)
}

func TestHostOrigin(t *testing.T) {
	host, err := hostOrigin("https://www.aakb.dk/register?next=x")
	require.NoError(t, err)
	assert.Equal(t, "https://www.aakb.dk", host)

	_, err = hostOrigin("no-scheme.dk/path")
	assert.Error(t, err)
}
