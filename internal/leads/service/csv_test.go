package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"academy_crm_backend/internal/leads/transport"
	"academy_crm_backend/platform/apperr"
)

func TestExport_QuotesEmbeddedCommas(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, transport.CreateLeadRequest{
		Name:       "Acme, Inc. (Procurement)",
		Email:      "buyer@acme.example",
		Phone:      "+919876543210",
		LeadSource: "cold_call",
	}, false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	out, err := svc.Export(ctx, admin())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}

	header := strings.Join(records[0], ",")
	if header != "Lead ID,Name,Email,Phone,Experience,Source,Status,Deal Value,Created At" {
		t.Fatalf("unexpected header: %s", header)
	}

	row := records[1]
	if row[1] != "Acme, Inc. (Procurement)" {
		t.Fatalf("comma in name corrupted the row: %q", row[1])
	}
	if row[5] != "cold_call" || row[6] != "fresh" {
		t.Fatalf("unexpected source/status: %q/%q", row[5], row[6])
	}
}

func TestExport_ScopedToActor(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	owner := sales()

	created, err := svc.Create(ctx, transport.CreateLeadRequest{
		Name: "Mine", Email: "mine@example.com", Phone: "+919876543210", LeadSource: "website",
	}, false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Claim(ctx, owner, created.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if _, err := svc.Create(ctx, transport.CreateLeadRequest{
		Name: "Pool", Email: "pool@example.com", Phone: "+919876543211", LeadSource: "website",
	}, false); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	out, err := svc.Export(ctx, owner)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("sales export should contain only owned leads, got %d rows", len(records)-1)
	}
	if records[1][1] != "Mine" {
		t.Fatalf("unexpected row: %v", records[1])
	}
}

func TestImport_PartialSuccess(t *testing.T) {
	svc, store, _ := newTestService()

	input := strings.Join([]string{
		"name,email,phone,experience,lead_source,deal_value",
		`"Doe, John",john@example.com,+919876543210,5 years,referral,25000`,
		"No Email,,+919876543211,,website,",
		"Bad Value,bad@example.com,+919876543212,,website,not-a-number",
		"Jane Roe,jane@example.com,+919876543213,,social_media,0",
	}, "\n")

	result, err := svc.Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.Total != 4 {
		t.Fatalf("expected 4 rows, got %d", result.Total)
	}
	if result.Successful != 2 {
		t.Fatalf("expected 2 imported rows, got %d", result.Successful)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %d", len(result.Errors))
	}
	if result.Errors[0].Row != 3 || result.Errors[1].Row != 4 {
		t.Fatalf("unexpected error rows: %d, %d", result.Errors[0].Row, result.Errors[1].Row)
	}
	if len(result.Errors[0].Data) == 0 {
		t.Fatal("row error should echo the rejected data")
	}

	if len(store.leads) != 2 {
		t.Fatalf("expected 2 stored leads, got %d", len(store.leads))
	}
	for _, lead := range store.leads {
		if lead.Status != "fresh" || lead.AssignedTo != nil {
			t.Fatalf("imported lead must be fresh and unassigned: %+v", lead)
		}
		if lead.Name == "Doe, John" && lead.DealValue != 25000 {
			t.Fatalf("embedded-comma row lost its deal value: %v", lead.DealValue)
		}
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	source, _, _ := newTestService()
	ctx := context.Background()

	experience := "8 years enterprise sales"
	dealValue := 50000.0
	seeds := []transport.CreateLeadRequest{
		{Name: "Acme, Inc.", Email: "buyer@acme.example", Phone: "+919876543210",
			Experience: &experience, LeadSource: "referral", DealValue: &dealValue},
		{Name: "Jane Roe", Email: "jane@example.com", Phone: "+919876543211", LeadSource: "cold_call"},
	}
	for _, seed := range seeds {
		if _, err := source.Create(ctx, seed, false); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	out, err := source.Export(ctx, admin())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}

	// Columns: Lead ID,Name,Email,Phone,Experience,Source,Status,Deal Value,Created At.
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"name", "email", "phone", "experience", "lead_source", "deal_value"}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, row := range records[1:] {
		if err := writer.Write([]string{row[1], row[2], row[3], row[4], row[5], row[7]}); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	writer.Flush()

	target, store, _ := newTestService()
	result, err := target.Import(ctx, &buf)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Total != len(seeds) || result.Successful != len(seeds) {
		t.Fatalf("expected %d clean rows, got total=%d successful=%d errors=%v",
			len(seeds), result.Total, result.Successful, result.Errors)
	}

	for _, seed := range seeds {
		var found bool
		for _, lead := range store.leads {
			if lead.Email != seed.Email {
				continue
			}
			found = true
			if lead.Status != "fresh" || lead.AssignedTo != nil {
				t.Fatalf("re-imported lead must be fresh and unassigned: %+v", lead)
			}
			if lead.Name != seed.Name || lead.Phone != seed.Phone || lead.Source != seed.LeadSource {
				t.Fatalf("re-imported lead drifted from %+v: %+v", seed, lead)
			}
			if seed.Experience != nil && (lead.Experience == nil || *lead.Experience != *seed.Experience) {
				t.Fatalf("experience did not survive the round trip: %+v", lead.Experience)
			}
			wantValue := 0.0
			if seed.DealValue != nil {
				wantValue = *seed.DealValue
			}
			if lead.DealValue != wantValue {
				t.Fatalf("deal value did not survive the round trip: got %v want %v", lead.DealValue, wantValue)
			}
		}
		if !found {
			t.Fatalf("lead %s missing after round trip", seed.Email)
		}
	}
}

func TestImport_RejectsWrongHeader(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Import(context.Background(), strings.NewReader("foo,bar\n1,2\n"))
	if kindOf(t, err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Import(context.Background(), strings.NewReader(""))
	if kindOf(t, err) != apperr.KindValidation {
		t.Fatalf("expected validation error for empty file, got %v", err)
	}
}
