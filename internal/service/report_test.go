package service

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewReportID_Format(t *testing.T) {
	pattern := regexp.MustCompile(fmt.Sprintf(`^PD-%d-[0-9A-Z]{4}$`, time.Now().Year()))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewReportID()
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}

	// 50 draws from a 36^4 space should essentially never all collide
	assert.Greater(t, len(seen), 1)
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t,
		"FasalRakshak_Official_Report_PD-2026-A1B2.pdf",
		ReportFilename("PD-2026-A1B2"),
	)
}
