package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hirelens/internal/models"
)

func TestTrustIndex(t *testing.T) {
	cv := &models.StructuredCV{
		CandidateName:   "Jane Doe",
		Email:           "jane@example.com",
		TechnicalSkills: []string{"Go", "Python", "Redis", "PostgreSQL", "Docker", "Kubernetes"},
	}

	tests := []struct {
		name string
		in   TrustInputs
		want float64
	}{
		{
			name: "no evidence at all",
			in:   TrustInputs{CV: cv},
			want: 0,
		},
		{
			name: "exact name and email",
			in: TrustInputs{
				CV: cv,
				LinkedIn: &models.LinkedInProfile{
					ProfileName: "Jane Doe",
					Email:       "JANE@example.com",
				},
			},
			want: 20,
		},
		{
			name: "partial name only",
			in: TrustInputs{
				CV:       cv,
				LinkedIn: &models.LinkedInProfile{ProfileName: "Jane Doe, PhD"},
			},
			want: 5,
		},
		{
			name: "github languages confirm skills",
			in: TrustInputs{
				CV:              cv,
				GitHubLanguages: []string{"go", "python"},
			},
			want: 6,
		},
		{
			name: "github confirmation caps at fifteen",
			in: TrustInputs{
				CV:              cv,
				GitHubLanguages: []string{"go", "python", "redis", "postgresql", "docker", "kubernetes"},
			},
			want: 15,
		},
		{
			name: "all channels hit the clamp",
			in: TrustInputs{
				CV: cv,
				LinkedIn: &models.LinkedInProfile{
					ProfileName: "Jane Doe",
					Email:       "jane@example.com",
					Skills:      []string{"Go", "Python", "Redis", "PostgreSQL", "Docker", "Kubernetes"},
				},
				GitHubLanguages: []string{"Go", "Python", "Redis", "PostgreSQL", "Docker", "Kubernetes"},
			},
			want: 50,
		},
		{
			name: "nil CV degrades to zero",
			in:   TrustInputs{},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrustIndex(tt.in))
		})
	}
}

func TestTrustIndex_Idempotent(t *testing.T) {
	in := TrustInputs{
		CV: &models.StructuredCV{
			CandidateName:   "Jane Doe",
			TechnicalSkills: []string{"Go"},
		},
		LinkedIn:        &models.LinkedInProfile{ProfileName: "Jane Doe", Skills: []string{"Go"}},
		GitHubLanguages: []string{"Go"},
	}
	first := TrustIndex(in)
	second := TrustIndex(in)
	assert.Equal(t, first, second)
}
