package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grievance-service/internal/config"
	"grievance-service/internal/model"
)

// newTestClient points the client at a stub speaking the chat-completions
// wire format, returning the given content for every request.
func newTestClient(t *testing.T, content string, status int) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	return NewClient(config.AIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "llama-3.1-8b-instant",
		Timeout: 5 * time.Second,
	}, zerolog.Nop())
}

func TestClassifyDepartment(t *testing.T) {
	cases := []struct {
		answer string
		want   model.Department
	}{
		{"Water & Sanitation", model.DepartmentWaterSanitation},
		{"The best match is Health.", model.DepartmentHealth},
		{"public safety", model.DepartmentPublicSafety},
		{"Parks Department", model.DepartmentOther},
	}
	for _, tc := range cases {
		client := newTestClient(t, tc.answer, http.StatusOK)
		got, err := client.ClassifyDepartment(context.Background(), "water leakage")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "answer=%q", tc.answer)
	}
}

func TestClassifyDepartment_TransportError(t *testing.T) {
	client := newTestClient(t, "", http.StatusInternalServerError)
	_, err := client.ClassifyDepartment(context.Background(), "water leakage")
	assert.Error(t, err)
}

func TestAssignPriority(t *testing.T) {
	cases := []struct {
		answer string
		want   model.Priority
	}{
		{"high", model.PriorityHigh},
		{"Low.", model.PriorityLow},
		{"medium", model.PriorityMedium},
		{"cannot determine", model.PriorityMedium},
	}
	for _, tc := range cases {
		client := newTestClient(t, tc.answer, http.StatusOK)
		got, err := client.AssignPriority(context.Background(), "street light broken")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "answer=%q", tc.answer)
	}
}

func TestStructureGrievance(t *testing.T) {
	client := newTestClient(t, "Issue Summary: water leakage in Andheri", http.StatusOK)
	got, err := client.StructureGrievance(context.Background(), "water leaking", "Mumbai", "Andheri")
	require.NoError(t, err)
	assert.Contains(t, got, "Issue Summary")
}

func TestVerifyClosure(t *testing.T) {
	cases := []struct {
		answer   string
		approved bool
		reason   string
	}{
		{"APPROVED", true, ""},
		{"APPROVED - pipe replaced and verified", true, ""},
		{"REJECTED - proof does not show the repaired pipe", false, "proof does not show the repaired pipe"},
		{"REJECTED: note too vague", false, "note too vague"},
		{"I am not sure about this one", false, "I am not sure about this one"},
	}
	for _, tc := range cases {
		client := newTestClient(t, tc.answer, http.StatusOK)
		verdict, err := client.VerifyClosure(context.Background(), "water leakage", "pipe replaced", "https://proof.example/1.jpg")
		require.NoError(t, err)
		assert.Equal(t, tc.approved, verdict.Approved, "answer=%q", tc.answer)
		if !tc.approved {
			assert.Equal(t, tc.reason, verdict.Reason, "answer=%q", tc.answer)
		}
	}
}

func TestVerifyClosure_TransportErrorSurfaces(t *testing.T) {
	client := newTestClient(t, "", http.StatusServiceUnavailable)
	_, err := client.VerifyClosure(context.Background(), "water leakage", "pipe replaced", "")
	assert.Error(t, err, "callers fail closed on any transport error")
}
