package dietplan

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository/mock"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/validator"
)

func ptr[T any](v T) *T { return &v }

func newService(repo *mock.DietPlanRepository) *Service {
	return NewService(repo, nil, validator.New(), logger.Nop())
}

func TestCreatePlan(t *testing.T) {
	repo := &mock.DietPlanRepository{}
	var created *model.DietPlan
	repo.CreateFn = func(_ context.Context, p *model.DietPlan) error {
		p.ID = uuid.New()
		created = p
		return nil
	}
	repo.GetFn = func(context.Context, uuid.UUID) (*model.DietPlan, error) {
		p := *created
		p.PatientName = ptr("Pat")
		return &p, nil
	}

	plan, err := newService(repo).CreatePlan(context.Background(), &model.CreateDietPlanRequest{
		DailyCalories:  ptr(1800.0),
		Protein:        ptr(90.0),
		StartDate:      "2026-10-01",
		EndDate:        "2026-10-31",
		PatientID:      uuid.New(),
		NutritionistID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pat", *plan.PatientName)
	assert.Equal(t, 1800.0, *plan.DailyCalories)
	assert.Nil(t, plan.Fat)
}

func TestCreatePlanValidation(t *testing.T) {
	tests := []struct {
		name string
		req  model.CreateDietPlanRequest
	}{
		{"missing dates", model.CreateDietPlanRequest{PatientID: uuid.New(), NutritionistID: uuid.New()}},
		{"negative protein", model.CreateDietPlanRequest{
			Protein: ptr(-1.0), StartDate: "2026-10-01", EndDate: "2026-10-02",
			PatientID: uuid.New(), NutritionistID: uuid.New(),
		}},
		{"end before start", model.CreateDietPlanRequest{
			StartDate: "2026-10-05", EndDate: "2026-10-01",
			PatientID: uuid.New(), NutritionistID: uuid.New(),
		}},
		{"bad date", model.CreateDietPlanRequest{
			StartDate: "10/01/2026", EndDate: "2026-10-02",
			PatientID: uuid.New(), NutritionistID: uuid.New(),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mock.DietPlanRepository{
				CreateFn: func(context.Context, *model.DietPlan) error {
					t.Fatal("repository must not be called")
					return nil
				},
			}
			_, err := newService(repo).CreatePlan(context.Background(), &tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrBadRequest))
		})
	}
}

func TestUpdatePlanMergesPatch(t *testing.T) {
	stored := &model.DietPlan{
		ID:            uuid.New(),
		DailyCalories: ptr(2000.0),
		Notes:         ptr("low salt"),
		StartDate:     "2026-10-01",
		EndDate:       "2026-10-31",
	}
	repo := &mock.DietPlanRepository{
		GetFn: func(context.Context, uuid.UUID) (*model.DietPlan, error) { return stored, nil },
	}

	plan, err := newService(repo).UpdatePlan(context.Background(), stored.ID, &model.UpdateDietPlanRequest{
		DailyCalories: ptr(1700.0),
		EndDate:       ptr("2026-11-30"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1700.0, *plan.DailyCalories)
	assert.Equal(t, "low salt", *plan.Notes)
	assert.Equal(t, "2026-11-30", plan.EndDate)
}

func TestUpdatePlanRejectsInvertedRange(t *testing.T) {
	stored := &model.DietPlan{ID: uuid.New(), StartDate: "2026-10-10", EndDate: "2026-10-31"}
	repo := &mock.DietPlanRepository{
		GetFn: func(context.Context, uuid.UUID) (*model.DietPlan, error) { return stored, nil },
		UpdateFn: func(context.Context, *model.DietPlan) error {
			t.Fatal("repository must not be called")
			return nil
		},
	}

	_, err := newService(repo).UpdatePlan(context.Background(), stored.ID, &model.UpdateDietPlanRequest{
		EndDate: ptr("2026-10-01"),
	})
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestExportAssigned(t *testing.T) {
	nutritionist := uuid.New()
	repo := &mock.DietPlanRepository{
		ListByNutritionistFn: func(_ context.Context, id uuid.UUID) ([]*model.DietPlan, error) {
			assert.Equal(t, nutritionist, id)
			return []*model.DietPlan{
				{PatientName: ptr("Pat"), StartDate: "2026-10-01", EndDate: "2026-12-31", DailyCalories: ptr(1800.0)},
				{StartDate: "2026-01-01", EndDate: "2026-02-01"},
			}, nil
		},
	}
	svc := newService(repo)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	require.NoError(t, svc.ExportAssigned(context.Background(), nutritionist, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestPlanStatus(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "active", planStatus(&model.DietPlan{EndDate: "2026-10-20"}, now))
	assert.Equal(t, "completed", planStatus(&model.DietPlan{EndDate: "2026-10-18"}, now))
	assert.Equal(t, "J3", cell(9, 3))
}
