package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/store/storetest"
)

func validSource() model.DisclosureSource {
	return model.DisclosureSource{
		TenantID:  "t-1",
		CompanyID: "ssab",
		Category:  "Purchased Goods & Services",
		Title:     "SSAB Annual Report",
		Location:  "https://ssab.example.com/annual-report-2023.pdf",
	}
}

func TestRegisterAssignsIdentifier(t *testing.T) {
	reg := New(storetest.New())

	src, err := reg.Register(context.Background(), validSource())
	require.NoError(t, err)
	assert.NotEmpty(t, src.ID)
	assert.False(t, src.CreatedAt.IsZero())
}

func TestRegisterValidation(t *testing.T) {
	reg := New(storetest.New())

	cases := []struct {
		name   string
		mutate func(*model.DisclosureSource)
		field  string
	}{
		{"missing tenant", func(s *model.DisclosureSource) { s.TenantID = "" }, "tenant_id"},
		{"missing company", func(s *model.DisclosureSource) { s.CompanyID = "" }, "company_id"},
		{"missing category", func(s *model.DisclosureSource) { s.Category = "" }, "category"},
		{"missing location", func(s *model.DisclosureSource) { s.Location = "" }, "location"},
		{"ftp scheme", func(s *model.DisclosureSource) { s.Location = "ftp://host/report.pdf" }, "location"},
		{"not a pdf", func(s *model.DisclosureSource) { s.Location = "https://host/report.html" }, "location"},
		{"unknown seed", func(s *model.DisclosureSource) { s.Location = "seed://nothing-here" }, "location"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := validSource()
			tc.mutate(&src)
			_, err := reg.Register(context.Background(), src)

			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestRegisterSeedLocationFillsTitle(t *testing.T) {
	reg := New(storetest.New())

	src := validSource()
	src.Title = ""
	src.Location = "seed://sika-sustainability-report-2023"

	registered, err := reg.Register(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "Sika Sustainability Report 2023", registered.Title)
}

func TestRegisterDuplicateOverwritesTitleOnly(t *testing.T) {
	st := storetest.New()
	reg := New(st)

	first, err := reg.Register(context.Background(), validSource())
	require.NoError(t, err)

	second := validSource()
	second.Title = "SSAB Annual Report (corrected)"
	_, err = reg.Register(context.Background(), second)
	require.NoError(t, err)

	listed, err := reg.List(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, "SSAB Annual Report (corrected)", listed[0].Title)
}

func TestListRequiresTenant(t *testing.T) {
	reg := New(storetest.New())
	_, err := reg.List(context.Background(), "")

	var verr *model.ValidationError
	assert.True(t, errors.As(err, &verr))
}
