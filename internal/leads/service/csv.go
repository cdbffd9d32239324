package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"academy_crm_backend/internal/leads/domain"
	"academy_crm_backend/internal/leads/repository"
	"academy_crm_backend/internal/leads/transport"
	"academy_crm_backend/platform/apperr"
)

// exportHeader is the column layout consumed by the dashboard's spreadsheet
// tooling. Order is part of the contract.
var exportHeader = []string{
	"Lead ID", "Name", "Email", "Phone", "Experience",
	"Source", "Status", "Deal Value", "Created At",
}

// importHeader is the expected first row of a bulk upload file.
var importHeader = []string{
	"name", "email", "phone", "experience", "lead_source", "deal_value",
}

// Export renders the actor's visible leads as CSV. Admins export every lead,
// a sales person exports their own. Values with embedded commas or quotes are
// quoted per RFC 4180.
func (s *Service) Export(ctx context.Context, actor domain.Actor) ([]byte, error) {
	params := repository.ListParams{}
	if !actor.IsAdmin() {
		actorID := actor.ID
		params.AssignedTo = &actorID
	}

	leads, err := s.store.List(ctx, params)
	if err != nil {
		return nil, apperr.Store("leads.export", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to write csv header", err)
	}

	for _, lead := range leads {
		experience := ""
		if lead.Experience != nil {
			experience = *lead.Experience
		}
		record := []string{
			lead.LeadCode,
			lead.Name,
			lead.Email,
			lead.Phone,
			experience,
			lead.Source,
			lead.Status,
			strconv.FormatFloat(lead.DealValue, 'f', 2, 64),
			lead.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to write csv row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to flush csv", err)
	}

	return buf.Bytes(), nil
}

// Import ingests a bulk upload file. Every row is validated with the same
// rules as Create; invalid rows are reported individually and do not abort
// the batch. All imported leads enter the pool as fresh and unassigned.
func (s *Service) Import(ctx context.Context, r io.Reader) (transport.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return transport.ImportResult{}, apperr.Validation("csv file is empty")
		}
		return transport.ImportResult{}, apperr.Validation("could not read csv header")
	}
	if err := checkImportHeader(header); err != nil {
		return transport.ImportResult{}, err
	}

	result := transport.ImportResult{Errors: []transport.ImportRowError{}}
	rowNum := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.Total++
			result.Errors = append(result.Errors, transport.ImportRowError{
				Row:   rowNum,
				Error: "malformed csv row",
				Data:  record,
			})
			continue
		}

		result.Total++
		req, err := parseImportRow(record)
		if err == nil {
			_, err = s.Create(ctx, req, false)
		}
		if err != nil {
			result.Errors = append(result.Errors, transport.ImportRowError{
				Row:   rowNum,
				Error: importErrorMessage(err),
				Data:  record,
			})
			continue
		}
		result.Successful++
	}

	return result, nil
}

func checkImportHeader(header []string) error {
	if len(header) != len(importHeader) {
		return apperr.Validation("csv header must be: " + strings.Join(importHeader, ","))
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), importHeader[i]) {
			return apperr.Validation("csv header must be: " + strings.Join(importHeader, ","))
		}
	}
	return nil
}

func parseImportRow(record []string) (transport.CreateLeadRequest, error) {
	if len(record) != len(importHeader) {
		return transport.CreateLeadRequest{}, fmt.Errorf("expected %d columns, got %d", len(importHeader), len(record))
	}

	req := transport.CreateLeadRequest{
		Name:       record[0],
		Email:      record[1],
		Phone:      record[2],
		LeadSource: strings.TrimSpace(record[4]),
	}

	if experience := strings.TrimSpace(record[3]); experience != "" {
		req.Experience = &experience
	}

	if raw := strings.TrimSpace(record[5]); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return transport.CreateLeadRequest{}, fmt.Errorf("invalid deal_value %q", raw)
		}
		req.DealValue = &value
	}

	return req, nil
}

func importErrorMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
