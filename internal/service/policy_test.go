package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"grievance-service/internal/model"
)

func TestPermissivePolicy(t *testing.T) {
	policy := PermissivePolicy{}

	for _, from := range model.AllStatuses() {
		for _, to := range model.AllStatuses() {
			allowed := policy.Allows(from, to)
			if from == to {
				assert.False(t, allowed, "%s -> %s", from, to)
			} else {
				assert.True(t, allowed, "%s -> %s", from, to)
			}
		}
	}
}

func TestStrictPolicy(t *testing.T) {
	policy := StrictPolicy{}

	cases := []struct {
		from, to model.Status
		allowed  bool
	}{
		{model.StatusPending, model.StatusUnderReview, true},
		{model.StatusUnderReview, model.StatusInProcess, true},
		{model.StatusInProcess, model.StatusOnHold, true},
		{model.StatusOnHold, model.StatusInProcess, true},
		{model.StatusInProcess, model.StatusResolved, true},
		{model.StatusResolved, model.StatusClosed, true},
		{model.StatusResolved, model.StatusInProcess, true},

		{model.StatusPending, model.StatusResolved, false},
		{model.StatusResolved, model.StatusPending, false},
		{model.StatusClosed, model.StatusPending, false},
		{model.StatusClosed, model.StatusInProcess, false},
		{model.StatusUnderReview, model.StatusUnderReview, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, policy.Allows(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestPolicyForEnvironment(t *testing.T) {
	assert.IsType(t, StrictPolicy{}, PolicyForEnvironment(true))
	assert.IsType(t, PermissivePolicy{}, PolicyForEnvironment(false))
}
