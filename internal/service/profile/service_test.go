package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository/mock"
	"github.com/jwalitptl/care-sync/pkg/logger"
)

func TestUpdateProfileKeepsUntouchedFields(t *testing.T) {
	phone := "+15550100"
	stored := &model.Profile{
		ID:        uuid.New(),
		Role:      model.RolePatient,
		Name:      "Pat",
		Phone:     &phone,
		Allergies: pq.StringArray{"peanuts"},
	}
	var saved *model.Profile
	repo := &mock.ProfileRepository{
		GetFn: func(context.Context, uuid.UUID) (*model.Profile, error) { return stored, nil },
		UpdateFn: func(_ context.Context, p *model.Profile) error {
			saved = p
			return nil
		},
	}

	name := "Patricia"
	profile, err := NewService(repo, nil, logger.Nop()).UpdateProfile(context.Background(), stored.ID,
		&model.UpdateProfileRequest{
			Name:  &name,
			Limit: &model.GoalLimit{Steps: 8000, Water: 10},
		})
	require.NoError(t, err)

	assert.Equal(t, "Patricia", profile.Name)
	assert.Equal(t, "+15550100", *profile.Phone)
	assert.Equal(t, pq.StringArray{"peanuts"}, profile.Allergies)
	assert.Equal(t, 8000.0, profile.FitnessLimit().Steps)
	assert.Same(t, profile, saved)
}
