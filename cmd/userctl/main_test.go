package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usermanager/internal/sandbox"
	"usermanager/internal/shared/config"
	"usermanager/internal/users"
)

func newDirectory(t *testing.T) (*httptest.Server, *sandbox.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := sandbox.NewService(sandbox.NewMemoryRepo())
	_, err := svc.Seed(context.Background())
	require.NoError(t, err)
	srv := httptest.NewServer(sandbox.NewRouter(config.Defaults(), svc))
	t.Cleanup(srv.Close)
	return srv, svc
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListText(t *testing.T) {
	srv, _ := newDirectory(t)

	out, _, err := run(t, "--directory-url", srv.URL, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 11)
	assert.Contains(t, lines[0], "FIRST NAME")
	assert.Contains(t, lines[1], "Leanne")
	assert.Contains(t, lines[1], "Romaguera-Crona")
}

func TestAddJSON(t *testing.T) {
	srv, svc := newDirectory(t)

	out, _, err := run(t, "--directory-url", srv.URL, "--format", "json", "add",
		"--first-name", "Ada", "--last-name", "Lovelace", "--email", "ada@x.com", "--department", "R&D")
	require.NoError(t, err)

	var list []users.UserRecord
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 11)
	assert.Equal(t, users.UserRecord{ID: 11, FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Department: "R&D"}, list[10])

	rec, err := svc.Get(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", rec.Name)
}

func TestAddRequiresEveryField(t *testing.T) {
	srv, _ := newDirectory(t)

	_, _, err := run(t, "--directory-url", srv.URL, "add", "--first-name", "Ada")
	var verr *users.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"lastName", "email", "department"}, verr.Fields)
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	srv, svc := newDirectory(t)

	out, _, err := run(t, "--directory-url", srv.URL, "--format", "json", "update", "2", "--department", "Globex")
	require.NoError(t, err)

	var list []users.UserRecord
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, "Ervin", list[1].FirstName)
	assert.Equal(t, "Globex", list[1].Department)

	rec, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Globex", rec.CompanyName)
}

func TestUpdateUnknownID(t *testing.T) {
	srv, _ := newDirectory(t)

	_, _, err := run(t, "--directory-url", srv.URL, "update", "99", "--email", "x@y.z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user 99 not found")
}

func TestDeleteFailurePrintsChannelMessage(t *testing.T) {
	srv, svc := newDirectory(t)
	require.NoError(t, svc.Delete(context.Background(), 4))

	_, stderr, err := run(t, "--directory-url", srv.URL, "delete", "4")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, users.MsgDeleteFailed, strings.TrimSpace(stderr))
}

func TestFetchFailurePrintsChannelMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, stderr, err := run(t, "--directory-url", srv.URL, "list")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, users.MsgFetchFailed, strings.TrimSpace(stderr))
}

func TestInvalidArguments(t *testing.T) {
	_, _, err := run(t, "--format", "yaml", "list")
	assert.ErrorContains(t, err, "invalid format")

	_, _, err = run(t, "--directory-url", "http://127.0.0.1:1", "delete", "abc")
	assert.ErrorContains(t, err, "invalid user id")
}
