package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/cost"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/normalize"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/pkg/anthropic"
)

// notFoundMarker is the sentinel the finder prompt instructs the model to
// return when no valid address exists.
const notFoundMarker = "NOT_FOUND"

// Claude implements Provider on the Anthropic API, using the server-side
// web search tool for discovery and contact finding.
type Claude struct {
	client  anthropic.Client
	cfg     config.AnthropicConfig
	limiter *rate.Limiter
	retry   resilience.Policy
	costs   *cost.Tracker
}

// NewClaude builds a Claude provider. Calls are paced by a shared limiter so
// multi-candidate runs stay inside provider rate windows.
func NewClaude(client anthropic.Client, cfg config.AnthropicConfig) *Claude {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 20
	}
	return &Claude{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		retry:   resilience.DefaultPolicy(),
		costs:   cost.NewTracker(cost.DefaultRates()),
	}
}

// Usage reports the tokens consumed and estimated spend so far.
func (c *Claude) Usage() cost.Summary {
	return c.costs.Summary()
}

// call pushes one message through the limiter and the transient-retry
// policy. Malformed output is judged by the caller, not here.
func (c *Claude) call(ctx context.Context, op string, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "intel: rate limiter")
	}
	resp, err := resilience.Do(ctx, c.retry, op, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return c.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	c.costs.Add(req.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return resp, nil
}

const discoverySystem = `You are a research assistant that finds startups matching the user's criteria.

Use the web_search tool, several distinct queries. Prefer directory-style and list-style sources:
accelerator batch pages, "best [X] startups" roundups, "[criteria] startup directory".

For each startup extract:
- name: company name
- domain: primary website domain (e.g. example.com, no scheme)
- one_liner: one short sentence describing what they do (max 80 characters)

Return at most 25 unique startups, deduplicated strictly by domain. Do not invent companies.
If the user supplies an explicit list, fill in missing domains or one-liners for that list instead.

Respond with JSON only, no prose, in this exact shape:
{"startups": [{"name": "...", "domain": "...", "one_liner": "..."}]}`

// Discover asks the model for companies matching criteria and parses the
// structured list, deduplicating by domain.
func (c *Claude) Discover(ctx context.Context, criteria string) ([]model.Candidate, error) {
	resp, err := c.call(ctx, "intel.discover", anthropic.MessageRequest{
		Model:       c.cfg.DiscoveryModel,
		MaxTokens:   int64(c.cfg.MaxTokens),
		System:      discoverySystem,
		Messages:    []anthropic.Message{{Role: "user", Content: criteria}},
		WebSearch:   true,
		MaxSearches: 8,
	})
	if err != nil {
		return nil, eris.Wrap(err, "intel: discover")
	}

	candidates, err := parseDiscovery(resp.Text())
	if err != nil {
		return nil, eris.Wrap(err, "intel: discover")
	}
	zap.L().Info("discovery complete",
		zap.Int("candidates", len(candidates)),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	return candidates, nil
}

const finderSystem = `You find the best contact email for a company given its name and domain.

Preference order: a specific person (founder, relevant role) at the company domain,
then generic addresses (contact@, hello@, info@, team@). Reject generic-provider
addresses (gmail.com etc.) unless clearly stated as the official contact.

Use web_search with multiple targeted queries (site:domain contact, "name" founder email,
"name" team page).

Reply with exactly one email address, or the exact string NOT_FOUND.
No explanations, no quotes, no extra text.`

// FindContact returns the best contact address, or "" when the model signals
// NOT_FOUND or produced nothing email-shaped.
func (c *Claude) FindContact(ctx context.Context, cand model.Candidate) (string, error) {
	input := fmt.Sprintf("Company name: %s\nDomain: %s\nFind the best contact email (e.g. hello@, contact@, or founder).",
		cand.Name, cand.Domain)

	resp, err := c.call(ctx, "intel.find_contact", anthropic.MessageRequest{
		Model:       c.cfg.FinderModel,
		MaxTokens:   int64(c.cfg.MaxTokens),
		System:      finderSystem,
		Messages:    []anthropic.Message{{Role: "user", Content: input}},
		WebSearch:   true,
		MaxSearches: 6,
	})
	if err != nil {
		return "", eris.Wrapf(err, "intel: find contact for %s", cand.Name)
	}

	email := parseFinderOutput(resp.Text())
	if email == "" {
		zap.L().Info("no contact email found", zap.String("candidate", cand.Name))
	}
	return email, nil
}

const writerSystem = `You draft a short, professional outreach email to a single startup.

The email must be personalized to that company's one-liner and domain; never a generic template.
Subject: use the hint if provided, otherwise derive it from the notes. Clear, relevant, not spammy.
Body: plain text, a few short paragraphs, at least one concrete reference to the company,
no HTML, no placeholders like [Name]. You are only drafting; a human approves before sending.

Respond with JSON only, no prose: {"subject": "...", "body": "..."}`

// Draft produces a subject and body for one candidate. Malformed structured
// output is a hard error.
func (c *Claude) Draft(ctx context.Context, req DraftRequest) (*model.Draft, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Startup: %s (%s)\n", req.Candidate.Name, req.Candidate.Domain)
	fmt.Fprintf(&sb, "Recipient email: %s\n", req.To)
	fmt.Fprintf(&sb, "One-liner: %s\n", req.Candidate.OneLiner)
	fmt.Fprintf(&sb, "Purpose: %s\n", req.Purpose)
	fmt.Fprintf(&sb, "Tone: %s\n", req.Tone)
	if req.SubjectHint != "" {
		fmt.Fprintf(&sb, "Subject line or hint (use or adapt): %s\n", req.SubjectHint)
	}
	if req.Notes != "" {
		fmt.Fprintf(&sb, "Notes or bullets to include: %s\n", req.Notes)
	}

	resp, err := c.call(ctx, "intel.draft", anthropic.MessageRequest{
		Model:     c.cfg.WriterModel,
		MaxTokens: int64(c.cfg.MaxTokens),
		System:    writerSystem,
		Messages:  []anthropic.Message{{Role: "user", Content: sb.String()}},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "intel: draft for %s", req.Candidate.Name)
	}

	subject, body, err := parseDraft(resp.Text())
	if err != nil {
		return nil, eris.Wrapf(err, "intel: draft for %s", req.Candidate.Name)
	}
	return &model.Draft{
		Candidate: req.Candidate,
		To:        req.To,
		Subject:   subject,
		Body:      body,
	}, nil
}

func parseDiscovery(text string) ([]model.Candidate, error) {
	var out struct {
		Startups []struct {
			Name     string `json:"name"`
			Domain   string `json:"domain"`
			OneLiner string `json:"one_liner"`
		} `json:"startups"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &out); err != nil {
		return nil, eris.Wrap(err, "parse discovery output")
	}

	candidates := make([]model.Candidate, 0, len(out.Startups))
	for _, s := range out.Startups {
		one := s.OneLiner
		if len(one) > model.OneLinerMaxLen {
			one = one[:model.OneLinerMaxLen]
		}
		candidates = append(candidates, model.Candidate{
			Name:     s.Name,
			Domain:   s.Domain,
			OneLiner: one,
		})
	}
	return model.DedupeCandidates(candidates), nil
}

func parseFinderOutput(text string) string {
	if strings.Contains(strings.ToUpper(strings.TrimSpace(text)), notFoundMarker) {
		return ""
	}
	return normalize.ExtractEmail(text)
}

func parseDraft(text string) (subject, body string, err error) {
	var out struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &out); err != nil {
		return "", "", eris.Wrap(err, "parse draft output")
	}
	if strings.TrimSpace(out.Subject) == "" || strings.TrimSpace(out.Body) == "" {
		return "", "", eris.New("draft output missing subject or body")
	}
	return out.Subject, out.Body, nil
}

// cleanJSON strips markdown code fences and any prose around the outermost
// JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
