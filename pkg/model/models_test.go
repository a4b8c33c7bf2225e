package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendations_Order(t *testing.T) {
	report := DiseaseReport{
		Symptoms:                 []string{"s1"},
		Treatment:                []string{"t1", "t2"},
		OrganicTreatment:         []string{"o1"},
		FertilizerRecommendation: []string{"f1"},
		Prevention:               []string{"p1"},
	}

	assert.Equal(t,
		[]string{"s1", "t1", "t2", "o1", "f1", "p1"},
		report.Recommendations(),
	)
}

func TestRecommendations_Empty(t *testing.T) {
	var report DiseaseReport
	assert.Empty(t, report.Recommendations())
}
