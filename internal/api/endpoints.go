package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vburojevic/pcx/internal/domain"
)

type rawExperiment struct {
	ID          text `json:"id"`
	Title       text `json:"title"`
	Description text `json:"description"`
}

type rawSubject struct {
	ID              text `json:"id"`
	DisplayName     text `json:"display_name"`
	DeviceInstallID text `json:"device_install_id"`
	LastSeenAt      text `json:"last_seen_at"`
}

// Experiments lists every experiment. The endpoint returns a bare array.
func (c *Client) Experiments(ctx context.Context) ([]domain.Experiment, error) {
	body, err := c.Get(ctx, EndpointExperiments, nil)
	if err != nil {
		return nil, err
	}
	if err := validateShape("experiments", body); err != nil {
		return nil, err
	}

	var raw []rawExperiment
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", EndpointExperiments, ErrMalformedResponse, err)
	}
	out := make([]domain.Experiment, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.Experiment{
			ID:          string(r.ID),
			Title:       string(r.Title),
			Description: string(r.Description),
		})
	}
	return out, nil
}

// Subjects lists every subject. The endpoint wraps them in {"subjects": [...]}.
func (c *Client) Subjects(ctx context.Context) ([]domain.Subject, error) {
	body, err := c.Get(ctx, EndpointSubjects, nil)
	if err != nil {
		return nil, err
	}
	if err := validateShape("subjects", body); err != nil {
		return nil, err
	}

	var resp struct {
		Subjects []rawSubject `json:"subjects"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", EndpointSubjects, ErrMalformedResponse, err)
	}
	out := make([]domain.Subject, 0, len(resp.Subjects))
	for _, r := range resp.Subjects {
		out = append(out, domain.Subject{
			ID:              string(r.ID),
			DisplayName:     string(r.DisplayName),
			DeviceInstallID: string(r.DeviceInstallID),
			LastSeenAt:      string(r.LastSeenAt),
		})
	}
	return out, nil
}

// SessionsByExperiment lists the sessions recorded for an experiment title.
func (c *Client) SessionsByExperiment(ctx context.Context, title string, mode domain.FetchMode) ([]domain.Session, error) {
	return c.sessionList(ctx, Params{"experiment": title, "includeSamples": mode})
}

// SessionsBySubject lists the sessions produced by a subject display name.
func (c *Client) SessionsBySubject(ctx context.Context, name string, mode domain.FetchMode) ([]domain.Session, error) {
	return c.sessionList(ctx, Params{"subjectName": name, "includeSamples": mode})
}

// SessionByID fetches one session document. Unlike the list queries the
// whole body is the document; it is not wrapped in "sessions".
func (c *Client) SessionByID(ctx context.Context, id string, mode domain.FetchMode) (domain.SessionDetail, error) {
	body, err := c.Get(ctx, EndpointGetSessionData, Params{"sessionId": id, "includeSamples": mode})
	if err != nil {
		return nil, err
	}
	return domain.SessionDetail(body), nil
}

func (c *Client) sessionList(ctx context.Context, params Params) ([]domain.Session, error) {
	body, err := c.Get(ctx, EndpointGetSessionData, params)
	if err != nil {
		return nil, err
	}
	if err := validateShape("sessions", body); err != nil {
		return nil, err
	}

	var resp struct {
		Sessions []json.RawMessage `json:"sessions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", EndpointGetSessionData, ErrMalformedResponse, err)
	}
	out := make([]domain.Session, 0, len(resp.Sessions))
	for _, raw := range resp.Sessions {
		s, err := normalizeSession(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", EndpointGetSessionData, ErrMalformedResponse, err)
		}
		out = append(out, s)
	}
	return out, nil
}
