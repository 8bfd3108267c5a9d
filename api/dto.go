/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the domain
  model from the wire contract. Field names are camelCase to match what the
  orchestrator service and frontend consume.

OPEN REQUEST BODIES:
  Staff and project create requests accept arbitrary extra fields. Known
  fields are validated; everything else lands in a string-keyed metadata bag
  and is stored untouched (see decodeOpen).

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// =============================================================================
// ENTITY DTOS
// =============================================================================

// StaffDTO represents a staff member in API responses.
type StaffDTO struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Grade      string            `json:"grade,omitempty"`
	Department string            `json:"department,omitempty"`
	City       string            `json:"city,omitempty"`
	Country    string            `json:"country,omitempty"`
	Email      string            `json:"email,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
	Rate       *decimal.Decimal  `json:"rate,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func toStaffDTO(s scheduling.StaffMember) StaffDTO {
	return StaffDTO{
		ID: s.ID, Name: s.Name, Grade: s.Grade, Department: s.Department,
		City: s.City, Country: s.Country, Email: s.Email, Skills: s.Skills,
		Rate: s.Rate, Metadata: s.Metadata,
	}
}

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	PartnerName string           `json:"partnerName,omitempty"`
	TeamLead    string           `json:"teamLead,omitempty"`
	Budget      *decimal.Decimal `json:"budget"`
}

func toProjectDTO(p scheduling.Project) ProjectDTO {
	return ProjectDTO{
		ID: p.ID, Name: p.Name, Description: p.Description,
		PartnerName: p.PartnerName, TeamLead: p.TeamLead, Budget: p.Budget,
	}
}

// AssignmentDTO represents an assignment row in API responses.
type AssignmentDTO struct {
	ID        string `json:"id"`
	StaffID   string `json:"staffId"`
	ProjectID string `json:"projectId"`
	Date      string `json:"date"`
	Hours     int    `json:"hours"`
}

func toAssignmentDTO(a scheduling.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID: a.ID, StaffID: a.StaffID, ProjectID: a.ProjectID,
		Date: a.Date.String(), Hours: a.Hours,
	}
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateStaffRequest is an open request body: known fields plus a metadata
// bag for everything else.
type CreateStaffRequest struct {
	Name       string           `json:"name"`
	Grade      string           `json:"grade"`
	Department string           `json:"department"`
	City       string           `json:"city"`
	Country    string           `json:"country"`
	Email      string           `json:"email"`
	Skills     []string         `json:"skills"`
	Rate       *decimal.Decimal `json:"rate"`

	Metadata map[string]string `json:"-"`
}

var staffKnownFields = []string{"name", "grade", "department", "city", "country", "email", "skills", "rate"}

func (r *CreateStaffRequest) UnmarshalJSON(data []byte) error {
	type alias CreateStaffRequest
	if err := json.Unmarshal(data, (*alias)(r)); err != nil {
		return err
	}
	var err error
	r.Metadata, err = decodeOpen(data, staffKnownFields)
	return err
}

// CreateProjectRequest mirrors CreateStaffRequest for projects. Extra fields
// are accepted and dropped; projects carry no metadata bag.
type CreateProjectRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	PartnerName string           `json:"partnerName"`
	TeamLead    string           `json:"teamLead"`
	Budget      *decimal.Decimal `json:"budget"`
}

// CreateAssignmentRequest creates one assignment row.
type CreateAssignmentRequest struct {
	StaffID   string `json:"staffId"`
	ProjectID string `json:"projectId"`
	Date      string `json:"date"`
	Hours     int    `json:"hours"`
}

// BulkAssignmentsRequest creates many rows best-effort.
type BulkAssignmentsRequest struct {
	Assignments []CreateAssignmentRequest `json:"assignments"`
}

// DeleteRangeRequest deletes assignments in a window, optionally for one
// staff member.
type DeleteRangeRequest struct {
	StaffID string `json:"staffId"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// AskRequest is a conversational turn.
type AskRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// =============================================================================
// RESPONSE WRAPPERS
// =============================================================================

// BulkResultDTO reports a best-effort bulk write. Callers compare requested
// against created; a shortfall means rows were skipped, not that the call
// failed.
type BulkResultDTO struct {
	Created   []scheduling.ResolvedMatch `json:"created"`
	Requested int                        `json:"requested"`
	Count     int                        `json:"count"`
	Skipped   int                        `json:"skipped"`
	Message   string                     `json:"message"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DeleteRangeResponse reports how many rows a range delete removed.
type DeleteRangeResponse struct {
	Deleted int `json:"deleted"`
}

// =============================================================================
// OPEN BODY DECODING
// =============================================================================

// decodeOpen collects the fields of data not named in known into a
// string-keyed bag. Values are stringified; nested structures keep their
// JSON encoding.
func decodeOpen(data []byte, known []string) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	bag := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			bag[k] = s
			continue
		}
		bag[k] = string(v)
	}
	return bag, nil
}
