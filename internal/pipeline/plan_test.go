package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/trialmap/internal/model"
)

func TestPlanQuery(t *testing.T) {
	tests := []struct {
		name       string
		fac        model.FacilityRecord
		wantQuery  string
		wantReason SkipReason
	}{
		{
			name: "full query",
			fac: model.FacilityRecord{
				Facility: "Derm Research Center", City: "Boston",
				State: "Massachusetts", Zip: "02115",
			},
			wantQuery: "Derm Research Center, Boston, Massachusetts 02115",
		},
		{
			name: "missing zip omits the zip segment",
			fac: model.FacilityRecord{
				Facility: "Derm Research Center", City: "Boston",
				State: "Massachusetts", Zip: "N/A",
			},
			wantQuery: "Derm Research Center, Boston, Massachusetts",
		},
		{
			name: "nan zip omits the zip segment",
			fac: model.FacilityRecord{
				Facility: "Derm Research Center", City: "Boston",
				State: "Massachusetts", Zip: "nan",
			},
			wantQuery: "Derm Research Center, Boston, Massachusetts",
		},
		{
			name:       "missing facility",
			fac:        model.FacilityRecord{Facility: "N/A", City: "Boston"},
			wantReason: SkipMissingFacility,
		},
		{
			name:       "empty facility",
			fac:        model.FacilityRecord{City: "Boston"},
			wantReason: SkipMissingFacility,
		},
		{
			name:       "junk facility prefix",
			fac:        model.FacilityRecord{Facility: "Call Suneva Medical for Information", City: "San Diego"},
			wantReason: SkipBadPrefix,
		},
		{
			name:       "all zeros zip",
			fac:        model.FacilityRecord{Facility: "Derm Center", City: "Boston", Zip: "00000"},
			wantReason: SkipBadZip,
		},
		{
			name:       "anonymized site suffix",
			fac:        model.FacilityRecord{Facility: "Suneva Medical Site", City: "San Diego"},
			wantReason: SkipSiteSuffix,
		},
		{
			name:       "site suffix is case insensitive",
			fac:        model.FacilityRecord{Facility: "Research SITE", City: "Miami"},
			wantReason: SkipSiteSuffix,
		},
		{
			name:       "numbered site label",
			fac:        model.FacilityRecord{Facility: "Main Clinic 12", City: "Dallas"},
			wantReason: SkipNumberedSite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanQuery(&tt.fac, DefaultRules())
			if tt.wantReason != "" {
				assert.False(t, plan.Workable())
				assert.Equal(t, tt.wantReason, plan.Reason)
				assert.Empty(t, plan.Query)
				return
			}
			assert.True(t, plan.Workable())
			assert.Equal(t, tt.wantQuery, plan.Query)
		})
	}
}

func TestPlanQuery_SkipLeavesFacilityUntouched(t *testing.T) {
	fac := model.FacilityRecord{Facility: "Main Clinic 12", City: "Dallas", State: "Texas", Zip: "75001"}
	before := fac

	_ = PlanQuery(&fac, DefaultRules())
	assert.Equal(t, before, fac)
}

func TestPlanQuery_IdenticalRowsShareQuery(t *testing.T) {
	a := model.FacilityRecord{Facility: "Derm Center", City: "Boston", State: "MA", Zip: "02115"}
	b := a

	planA := PlanQuery(&a, DefaultRules())
	planB := PlanQuery(&b, DefaultRules())
	assert.Equal(t, planA.Query, planB.Query)
}
