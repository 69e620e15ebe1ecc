package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hirelens/internal/models"
)

func cvWith(months float64, tech, soft int, degrees []string, certs int) *models.StructuredCV {
	cv := &models.StructuredCV{Degrees: degrees}
	if months > 0 {
		cv.Experience = []models.ExperienceEntry{{Title: "Engineer", DurationMonths: months}}
	}
	for i := 0; i < tech; i++ {
		cv.TechnicalSkills = append(cv.TechnicalSkills, "Skill")
	}
	for i := 0; i < soft; i++ {
		cv.SoftSkills = append(cv.SoftSkills, "Skill")
	}
	for i := 0; i < certs; i++ {
		cv.Certifications = append(cv.Certifications, "Cert")
	}
	return cv
}

func TestCareerReadiness(t *testing.T) {
	tests := []struct {
		name string
		cv   *models.StructuredCV
		want float64
	}{
		{
			name: "mid-career bachelor",
			// 30 exp + (18 tech + 4 soft) + 8 edu + 2 certs
			cv:   cvWith(48, 6, 2, []string{"Bachelor of Science"}, 2),
			want: 62,
		},
		{
			name: "empty CV",
			cv:   &models.StructuredCV{},
			want: 0,
		},
		{
			name: "five plus years caps experience",
			cv:   cvWith(61, 0, 0, nil, 0),
			want: 40,
		},
		{
			name: "under a year still counts",
			cv:   cvWith(6, 0, 0, nil, 0),
			want: 10,
		},
		{
			name: "skills cap at forty",
			cv:   cvWith(0, 20, 10, nil, 0),
			want: 40,
		},
		{
			name: "phd outranks bachelor",
			cv:   cvWith(0, 0, 0, []string{"Bachelor of Arts", "PhD in Computer Science"}, 0),
			want: 15,
		},
		{
			name: "unrecognized degree gets base points",
			cv:   cvWith(0, 0, 0, []string{"Diploma in Electronics"}, 0),
			want: 3,
		},
		{
			name: "certifications cap at five",
			cv:   cvWith(0, 0, 0, nil, 9),
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CareerReadiness(tt.cv).Total())
		})
	}
}

func TestCareerReadiness_ExperienceSumsAcrossRoles(t *testing.T) {
	cv := &models.StructuredCV{
		Experience: []models.ExperienceEntry{
			{Title: "Engineer", DurationMonths: 20},
			{Title: "Senior Engineer", DurationMonths: 20},
		},
	}
	b := CareerReadiness(cv)
	assert.Equal(t, 30.0, b.ExperienceScore)
}
