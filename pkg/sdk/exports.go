package resumerank

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Workbook renders a stored run as an xlsx workbook with a composite score chart.
func (c *Client) Workbook(ctx context.Context, runID string) (_ []byte, err error) {
	defer func(start time.Time) { c.obs.observe("workbook", start, err) }(time.Now())

	data, err := c.exports.RunWorkbook(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("resumerank: workbook %s: %w", runID, err)
	}
	return data, nil
}

// FeedbackPDF renders the feedback of every candidate of a run as one PDF.
func (c *Client) FeedbackPDF(ctx context.Context, runID string) (_ []byte, err error) {
	defer func(start time.Time) { c.obs.observe("feedback_pdf", start, err) }(time.Now())

	data, err := c.exports.RunFeedbackDocument(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("resumerank: feedback pdf %s: %w", runID, err)
	}
	return data, nil
}

// CandidateFeedback returns the plain-text feedback for one candidate of a run.
func (c *Client) CandidateFeedback(ctx context.Context, runID, documentID string) (_ *Feedback, err error) {
	defer func(start time.Time) { c.obs.observe("candidate_feedback", start, err) }(time.Now())

	text, err := c.exports.CandidateFeedback(ctx, runID, documentID)
	if err != nil {
		return nil, fmt.Errorf("resumerank: feedback %s/%s: %w", runID, documentID, err)
	}
	return &Feedback{DocumentID: text.DocumentID, Title: text.Title, Lines: text.Lines}, nil
}

// CandidateFeedbackPDF renders the feedback for one candidate as a PDF.
func (c *Client) CandidateFeedbackPDF(ctx context.Context, runID, documentID string) (_ []byte, err error) {
	defer func(start time.Time) { c.obs.observe("candidate_feedback_pdf", start, err) }(time.Now())

	data, err := c.exports.CandidateFeedbackDocument(ctx, runID, documentID)
	if err != nil {
		return nil, fmt.Errorf("resumerank: feedback pdf %s/%s: %w", runID, documentID, err)
	}
	return data, nil
}

// String joins the feedback lines, one per line.
func (f *Feedback) String() string {
	return strings.Join(f.Lines, "\n")
}
