package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/baserow"
	"github.com/betaops/beta-manager/internal/config"
	"github.com/betaops/beta-manager/internal/domain"
)

func newStoreClient(t *testing.T, handler http.HandlerFunc) *baserow.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return baserow.NewClient(config.BaserowConfig{
		BaseURL:        server.URL,
		APIToken:       "t",
		TestersTableID: "101",
		TimeoutSeconds: 5,
	}, zap.NewNop())
}

func testerRowJSON(id int, name, email, stage string) map[string]any {
	return map[string]any{
		"id":         id,
		"name":       name,
		"email":      email,
		"source":     map[string]any{"id": 1, "value": "referral", "color": "blue"},
		"stage":      map[string]any{"id": 2, "value": stage, "color": "green"},
		"created_on": "2026-08-01T09:00:00Z",
		"updated_on": "2026-08-01T09:00:00Z",
	}
}

func TestTesterListPassthrough(t *testing.T) {
	var gotQuery map[string][]string
	client := newStoreClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count": 120,
			"results": []map[string]any{
				testerRowJSON(1, "Ada", "ada@example.com", "active"),
				testerRowJSON(2, "Grace", "grace@example.com", "prospect"),
			},
		})
	})
	repo := NewTesterRepository(client)

	testers, total, err := repo.List(context.Background(), TesterFilter{Page: 3, Size: 2})
	require.NoError(t, err)

	// Without in-memory narrowing the requested page goes straight to
	// the store and the store's total is trusted.
	assert.Equal(t, []string{"3"}, gotQuery["page"])
	assert.Equal(t, []string{"2"}, gotQuery["size"])
	assert.Equal(t, []string{"-created_on"}, gotQuery["order_by"])
	assert.Equal(t, 120, total)
	require.Len(t, testers, 2)
	assert.Equal(t, "Ada", testers[0].Name)
	assert.Equal(t, domain.StageActive, testers[0].Stage)
	assert.Equal(t, domain.SourceReferral, testers[0].Source)
}

func TestTesterListNarrowedRepaginates(t *testing.T) {
	var gotQuery map[string][]string
	client := newStoreClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		rows := make([]map[string]any, 0, 50)
		for i := 1; i <= 50; i++ {
			stage := "prospect"
			if i%2 == 0 {
				stage = "active"
			}
			name := fmt.Sprintf("Tester %02d", i)
			email := fmt.Sprintf("tester%02d@example.com", i)
			rows = append(rows, testerRowJSON(i, name, email, stage))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"count": 50, "results": rows})
	})
	repo := NewTesterRepository(client)

	testers, total, err := repo.List(context.Background(), TesterFilter{
		Stage: domain.StageActive,
		Page:  2,
		Size:  10,
	})
	require.NoError(t, err)

	// The narrowed fetch widens to one max-size page and re-paginates
	// after filtering.
	assert.Equal(t, []string{"1"}, gotQuery["page"])
	assert.Equal(t, []string{strconv.Itoa(baserow.MaxPageSize)}, gotQuery["size"])

	assert.Equal(t, 25, total)
	require.Len(t, testers, 10)
	// Page 2 of the 25 active testers starts at the 11th match, id 22.
	assert.Equal(t, 22, testers[0].ID)
	assert.Equal(t, 40, testers[9].ID)
	for _, tester := range testers {
		assert.Equal(t, domain.StageActive, tester.Stage)
	}
}

func TestTesterListSearchMatchesNameAndEmail(t *testing.T) {
	client := newStoreClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count": 3,
			"results": []map[string]any{
				testerRowJSON(1, "Ada Lovelace", "ada@example.com", "active"),
				testerRowJSON(2, "Grace Hopper", "grace@example.com", "active"),
				testerRowJSON(3, "Alan Turing", "lovelace.fan@example.com", "active"),
			},
		})
	})
	repo := NewTesterRepository(client)

	testers, total, err := repo.List(context.Background(), TesterFilter{Search: "LOVELACE"})
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, testers, 2)
	assert.Equal(t, 1, testers[0].ID)
	assert.Equal(t, 3, testers[1].ID)
}

func TestTesterUpdateWritesUTCTimestamps(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	client := newStoreClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(testerRowJSON(7, "Ada", "ada@example.com", "active"))
	})
	repo := NewTesterRepository(client)

	loc := time.FixedZone("UTC+3", 3*60*60)
	startedAt := time.Date(2026, 8, 20, 12, 30, 0, 0, loc)
	stage := domain.StageActive

	tester, err := repo.Update(context.Background(), 7, TesterPatch{
		Stage:      &stage,
		StartedAt:  &startedAt,
		LastActive: &startedAt,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "active", gotBody["stage"])
	assert.Equal(t, "2026-08-20T09:30:00Z", gotBody["started_at"])
	assert.Equal(t, "2026-08-20T09:30:00Z", gotBody["last_active"])
	// Untouched fields stay out of the patch entirely.
	assert.NotContains(t, gotBody, "name")
	assert.NotContains(t, gotBody, "completed_at")

	assert.Equal(t, 7, tester.ID)
	assert.Equal(t, domain.StageActive, tester.Stage)
}

func TestTesterListAllUsesSweepPage(t *testing.T) {
	var gotQuery map[string][]string
	client := newStoreClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":   1,
			"results": []map[string]any{testerRowJSON(1, "Ada", "ada@example.com", "active")},
		})
	})
	repo := NewTesterRepository(client)

	testers, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{strconv.Itoa(baserow.MaxSweepSize)}, gotQuery["size"])
	require.Len(t, testers, 1)
}
