package api

import (
	"bytes"
	"dispatch-compliance-service/internal/adapters/extraction"
	"dispatch-compliance-service/internal/adapters/repositories"
	"dispatch-compliance-service/internal/adapters/routing"
	"dispatch-compliance-service/internal/adapters/session"
	"dispatch-compliance-service/internal/api/dto"
	"dispatch-compliance-service/internal/platform/metrics"
	"dispatch-compliance-service/internal/ports"
	"dispatch-compliance-service/internal/rules"
	"dispatch-compliance-service/internal/services"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	clock := ports.FixedClock{T: testNow}
	provider := routing.NewMockRouteProvider(routing.DefaultCities)
	reg := prometheus.NewRegistry()

	return NewRouter(Dependencies{
		Rules:      rules.DefaultRuleTable(),
		Advisories: rules.DefaultAdvisories(),
		Catalog:    provider,
		Provider:   provider,
		Sessions:   session.NewMemoryStore(),
		Documents:  repositories.NewMemoryDocumentRepository(),
		Ingestor: &services.DocumentIngestor{
			Guesser:   extraction.FilenameGuesser{},
			Extractor: extraction.NewSimulatedExtractor(clock),
			Clock:     clock,
		},
		Clock:    clock,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func setTier(t *testing.T, h http.Handler, sessionID, tier string) {
	t.Helper()

	rec := do(t, h, http.MethodPut, "/sessions/"+sessionID+"/tier", dto.SetTierRequest{Tier: tier})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestReferenceData(t *testing.T) {
	h := newTestRouter(t)

	cities := decode[dto.ListCitiesResponse](t, do(t, h, http.MethodGet, "/cities", nil))
	require.Len(t, cities.Cities, 9)
	assert.Equal(t, dto.CityResponse{Name: "Chicago, IL", Jurisdiction: "IL"}, cities.Cities[0])

	list := decode[dto.ListRulesResponse](t, do(t, h, http.MethodGet, "/rules", nil))
	require.Len(t, list.Rules, 9)
	assert.Equal(t, "AZ", list.Rules[0].Code)
	for _, r := range list.Rules {
		if r.Code == "CO" {
			assert.Len(t, r.Advisories, 1)
		}
	}
}

func TestGuardrail(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/guardrail?city="+url.QueryEscape("Denver, CO"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[dto.GuardrailResponse](t, rec)
	assert.Equal(t, "CO", snap.Jurisdiction)
	assert.True(t, snap.HasRuleData)
	require.NotNil(t, snap.Rule)
	assert.InDelta(t, 13.8, snap.Rule.MinBridgeFt, 1e-9)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/guardrail?city=Gotham", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/guardrail", nil).Code)
}

func TestTierAndEntitlements(t *testing.T) {
	h := newTestRouter(t)

	ent := decode[dto.EntitlementsResponse](t, do(t, h, http.MethodGet, "/sessions/s1/entitlements", nil))
	assert.Equal(t, "Free", ent.Tier)
	assert.False(t, ent.Entitlements.AutoOCR)
	assert.True(t, ent.Entitlements.ComplianceAlerts)

	setTier(t, h, "s1", "pro")
	ent = decode[dto.EntitlementsResponse](t, do(t, h, http.MethodGet, "/sessions/s1/entitlements", nil))
	assert.Equal(t, "Pro", ent.Tier)
	assert.True(t, ent.Entitlements.InspectionMode)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/sessions/s1/tier", dto.SetTierRequest{Tier: "gold"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/sessions/s1/tier", `{"tier":"pro","extra":1}`).Code)
}

func TestPlanTrip(t *testing.T) {
	h := newTestRouter(t)
	req := dto.PlanTripRequest{
		Origin:      "Chicago, IL",
		Destination: "Atlanta, GA",
		Vehicle:     dto.VehicleRequest{HeightFt: 13.5, GrossWeightLbs: 78000, Hazmat: true},
	}

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/sessions/s1/trips/last", nil).Code)

	rec := do(t, h, http.MethodPost, "/sessions/s1/trips", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	free := decode[dto.TripPlanResponse](t, rec)
	assert.Equal(t, []string{"IL", "TN", "IN", "GA"}, free.Route.Jurisdictions)
	assert.Equal(t, "OK", free.Feasibility.Status)
	assert.False(t, free.AdvancedChecks)
	assert.Equal(t, []string{}, free.Feasibility.Issues)

	setTier(t, h, "s1", "Pro")
	pro := decode[dto.TripPlanResponse](t, do(t, h, http.MethodPost, "/sessions/s1/trips", req))
	assert.Equal(t, "RISK", pro.Feasibility.Status)
	assert.Len(t, pro.Feasibility.Issues, 2)

	last := decode[dto.RouteResponse](t, do(t, h, http.MethodGet, "/sessions/s1/trips/last", nil))
	assert.Equal(t, "Atlanta, GA", last.Destination)
	assert.Len(t, last.Points, 3)
}

func TestPlanTripBadRequests(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		body any
	}{
		{"unknown city", dto.PlanTripRequest{Origin: "Gotham", Destination: "Atlanta, GA", Vehicle: dto.VehicleRequest{HeightFt: 13, GrossWeightLbs: 1}}},
		{"missing vehicle", dto.PlanTripRequest{Origin: "Chicago, IL", Destination: "Atlanta, GA"}},
		{"malformed", `{"origin":`},
		{"two objects", `{} {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/sessions/s1/trips", tt.body).Code)
		})
	}
}

func TestDocumentLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/sessions/s1/documents", dto.DeclareDocumentRequest{
		FileName:   "permit.pdf",
		ExpiryDate: "2026-04-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[dto.ListDocumentsResponse](t, rec)
	require.Len(t, added.Documents, 1)
	doc := added.Documents[0]
	assert.Equal(t, "PERMIT", doc.Category)
	assert.Equal(t, "manual", doc.Source)
	require.NotNil(t, doc.ExpiryDate)
	assert.Equal(t, "2026-04-01", *doc.ExpiryDate)

	rec = do(t, h, http.MethodPut, "/sessions/s1/documents/"+doc.ID+"/expiry", dto.SetExpiryRequest{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2026-06-13", decode[dto.SetExpiryResponse](t, rec).ExpiryDate)

	rec = do(t, h, http.MethodPut, "/sessions/s1/documents/"+doc.ID+"/expiry", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2026-06-13", decode[dto.SetExpiryResponse](t, rec).ExpiryDate)

	rec = do(t, h, http.MethodPut, "/sessions/s1/documents/"+doc.ID+"/expiry", dto.SetExpiryRequest{ExpiryDate: "2027-02-02"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/sessions/s1/documents/"+doc.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[dto.DocumentResponse](t, rec)
	assert.Equal(t, doc.ID, got.ID)
	require.NotNil(t, got.ExpiryDate)
	assert.Equal(t, "2027-02-02", *got.ExpiryDate)

	assert.Equal(t, http.StatusNotFound,
		do(t, h, http.MethodGet, "/sessions/s2/documents/"+doc.ID, nil).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, h, http.MethodGet, "/sessions/s1/documents/not-a-uuid", nil).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, h, http.MethodPut, "/sessions/s1/documents/"+doc.ID+"/expiry", "{not json").Code)

	list := decode[dto.ListDocumentsResponse](t, do(t, h, http.MethodGet, "/sessions/s1/documents", nil))
	require.Len(t, list.Documents, 1)
	assert.Equal(t, "2027-02-02", *list.Documents[0].ExpiryDate)

	assert.Equal(t, http.StatusNotFound,
		do(t, h, http.MethodPut, "/sessions/s2/documents/"+doc.ID+"/expiry", dto.SetExpiryRequest{}).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, h, http.MethodPut, "/sessions/s1/documents/not-a-uuid/expiry", dto.SetExpiryRequest{}).Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/sessions/s1/documents", nil).Code)
	list = decode[dto.ListDocumentsResponse](t, do(t, h, http.MethodGet, "/sessions/s1/documents", nil))
	assert.Empty(t, list.Documents)
}

func TestDeclareDocumentValidation(t *testing.T) {
	h := newTestRouter(t)

	for _, body := range []dto.DeclareDocumentRequest{
		{FileName: ""},
		{FileName: "a.pdf", Category: "PASSPORT"},
		{FileName: "a.pdf", ExpiryDate: "03/01/2026"},
	} {
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/sessions/s1/documents", body).Code, body)
	}
}

func TestUploadDocuments(t *testing.T) {
	h := newTestRouter(t)
	setTier(t, h, "s1", "pro")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"CDL_EXP_2027-05-05.jpg", "bol_load_42.pdf"} {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("scan"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/sessions/s1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	docs := decode[dto.ListDocumentsResponse](t, rec).Documents
	require.Len(t, docs, 2)
	assert.Equal(t, "CDL", docs[0].Category)
	assert.Equal(t, "2027-05-05", *docs[0].ExpiryDate)
	assert.Equal(t, "SIMULATED_OCR", docs[0].Extracted.Mode)
	assert.Equal(t, "BOL", docs[1].Category)
	assert.Equal(t, "upload", docs[1].Source)
}

func TestUploadWithoutFiles(t *testing.T) {
	h := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "nothing attached"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/sessions/s1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeedAndAlerts(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/sessions/s1/documents/seed", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, decode[dto.ListDocumentsResponse](t, rec).Documents, 5)

	alerts := decode[dto.ListAlertsResponse](t, do(t, h, http.MethodGet, "/sessions/s1/alerts", nil))
	assert.Equal(t, "2026-03-15", alerts.Today)
	require.Len(t, alerts.Alerts, 1)
	assert.Equal(t, dto.AlertResponse{
		Severity: "HIGH",
		Title:    "Missing inspection doc",
		Detail:   "Bill of Lading (current load) (BOL) not found.",
	}, alerts.Alerts[0])

	later := decode[dto.ListAlertsResponse](t, do(t, h, http.MethodGet, "/sessions/s1/alerts?today=2026-06-20", nil))
	require.Len(t, later.Alerts, 6)
	assert.Equal(t, "HIGH", later.Alerts[0].Severity)
	for _, a := range later.Alerts[1:] {
		assert.Equal(t, "MED", a.Severity)
	}

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/sessions/s1/alerts?today=tomorrow", nil).Code)
}

func TestSeedWithAutoOCR(t *testing.T) {
	h := newTestRouter(t)
	setTier(t, h, "s1", "pro")

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions/s1/documents/seed", nil).Code)

	alerts := decode[dto.ListAlertsResponse](t, do(t, h, http.MethodGet, "/sessions/s1/alerts", nil)).Alerts
	require.Len(t, alerts, 4)
	assert.Equal(t, "Missing inspection doc", alerts[0].Title)
	for _, a := range alerts[1:] {
		assert.Equal(t, "Document expired", a.Title)
	}
}

func TestInspectionRequiresPro(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions/s1/documents/seed", nil).Code)

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/sessions/s1/inspection", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPost, "/sessions/s1/inspection/packet", nil).Code)

	setTier(t, h, "s1", "pro")

	inspection := decode[dto.InspectionResponse](t, do(t, h, http.MethodGet, "/sessions/s1/inspection", nil))
	require.Len(t, inspection.Checklist, 6)
	assert.True(t, inspection.Checklist[0].Present)
	assert.False(t, inspection.Checklist[5].Present)

	packet := decode[dto.InspectionPacketResponse](t, do(t, h, http.MethodPost, "/sessions/s1/inspection/packet", nil))
	assert.Equal(t, "PROTOTYPE", packet.Mode)
	require.Len(t, packet.Packet, 6)
	assert.NotNil(t, packet.Packet[0].DocumentID)
	assert.Nil(t, packet.Packet[5].DocumentID)
	assert.True(t, packet.GeneratedAt.Equal(testNow))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)

	do(t, h, http.MethodPost, "/sessions/s1/trips", dto.PlanTripRequest{
		Origin:      "Chicago, IL",
		Destination: "Dallas, TX",
		Vehicle:     dto.VehicleRequest{HeightFt: 13.0, GrossWeightLbs: 70000},
	})

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `dispatch_feasibility_outcomes_total{status="OK",tier="Free"} 1`))
}

func TestRequestIDHeaderPropagates(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
