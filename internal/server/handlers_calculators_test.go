package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleListStates(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/states", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[struct {
		TaxYear int `json:"tax_year"`
		Count   int `json:"count"`
		States  []struct {
			Code string `json:"code"`
		} `json:"states"`
	}](t, w)
	assert.Equal(t, 2024, resp.TaxYear)
	assert.Equal(t, 11, resp.Count)
	assert.Equal(t, "AZ", resp.States[0].Code)
}

func TestCalculatorEndpoints(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name      string
		path      string
		body      string
		wantField string
		want      float64
	}{
		{
			name:      "unemployment below cap",
			path:      "/api/calculators/unemployment",
			body:      `{"weekly_wage":800,"state":"TX"}`,
			wantField: "weekly_benefit",
			want:      400,
		},
		{
			name:      "unemployment lowercase state capped",
			path:      "/api/calculators/unemployment",
			body:      `{"weekly_wage":1400,"state":"tx"}`,
			wantField: "weekly_benefit",
			want:      563,
		},
		{
			name:      "certification payback",
			path:      "/api/calculators/certification-roi",
			body:      `{"cost":150,"weekly_increase":90}`,
			wantField: "payback_weeks",
			want:      1.67,
		},
		{
			name:      "fpl percent",
			path:      "/api/calculators/fpl",
			body:      `{"annual_income":30000,"household_size":1}`,
			wantField: "percent_of_fpl",
			want:      199.2,
		},
		{
			name:      "paycheck net",
			path:      "/api/calculators/paycheck",
			body:      `{"annual_salary":52000,"state":"TX","pay_frequency":"biweekly"}`,
			wantField: "net_pay",
			want:      1683.31,
		},
		{
			name:      "salary from hourly",
			path:      "/api/calculators/salary",
			body:      `{"hourly_rate":25}`,
			wantField: "annual",
			want:      52000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.path, tt.body, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			resp := decodeBody[map[string]any](t, w)
			got, ok := resp[tt.wantField].(float64)
			require.True(t, ok, "missing %s in %v", tt.wantField, resp)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestHandleFPL_Eligibility(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/calculators/fpl", `{"annual_income":30000,"household_size":1}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, false, resp["medicaid_eligible"])
	assert.Equal(t, true, resp["aca_eligible"])
	assert.InDelta(t, 15060.0, resp["poverty_line"], 0.001)
}

func TestCalculatorEndpoints_BadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name      string
		path      string
		body      string
		wantError string
	}{
		{name: "unknown state", path: "/api/calculators/unemployment", body: `{"weekly_wage":800,"state":"ZZ"}`, wantError: "state"},
		{name: "negative wage", path: "/api/calculators/unemployment", body: `{"weekly_wage":-1,"state":"TX"}`, wantError: "weekly_wage"},
		{name: "zero weekly increase", path: "/api/calculators/certification-roi", body: `{"cost":150,"weekly_increase":0}`, wantError: "weekly_increase"},
		{name: "household too small", path: "/api/calculators/fpl", body: `{"annual_income":1000,"household_size":0}`, wantError: "household_size"},
		{name: "unknown region", path: "/api/calculators/fpl", body: `{"annual_income":1000,"household_size":1,"region":"guam"}`, wantError: "region"},
		{name: "paycheck missing state", path: "/api/calculators/paycheck", body: `{"annual_salary":52000}`, wantError: "state"},
		{name: "salary both set", path: "/api/calculators/salary", body: `{"hourly_rate":20,"annual_salary":40000}`, wantError: "mutually exclusive"},
		{name: "malformed JSON", path: "/api/calculators/salary", body: `{"hourly_rate":`, wantError: "invalid JSON body"},
		{name: "unknown calculator", path: "/api/calculators/roi", body: `{}`, wantError: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.path, tt.body, "")
			if tt.wantError == "" {
				assert.Equal(t, http.StatusNotFound, w.Code)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, errorMessage(t, w), tt.wantError)
		})
	}
}
