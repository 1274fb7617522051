package querygen

import (
	"fmt"
	"strings"
	"time"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

// strategy pairs a prompt builder with the query id prefix its results carry.
type strategy struct {
	name   string
	prefix string
	prompt func(profile *models.BrandProfile, count int) string
}

var strategies = map[string]strategy{
	"keyword":    {name: "keyword", prefix: "kw", prompt: keywordPrompt},
	"persona":    {name: "persona", prefix: "ps", prompt: personaPrompt},
	"intent":     {name: "intent", prefix: "in", prompt: intentPrompt},
	"competitor": {name: "competitor", prefix: "cp", prompt: competitorPrompt},
}

func year() int {
	return time.Now().UTC().Year()
}

func orDefault(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}

	return strings.Join(items, ", ")
}

func keywordPrompt(profile *models.BrandProfile, count int) string {
	return fmt.Sprintf(`You are a GEO (Generative Engine Optimization) specialist. Generate %d realistic search queries that real users would type into an AI chatbot (ChatGPT, Claude, Gemini, Perplexity) when researching the "%s" space.

CATEGORY CONTEXT:
- Category: %s
- Industry: %s
- Keywords: %s
- Key capabilities: %s
- Target audience: %s
- Year: %d

QUERY TYPES TO MIX:
- Discovery: "What's the best X?", "Top X tools", generic category exploration
- Evaluation: reputation checks, trust signals, expert opinions
- Feature-driven: queries about specific capabilities or use cases (use the keywords above)
- Pricing/value: affordability, free tiers, cost comparisons
- Problem-framing: "I need help with [problem], what tool?"
- Industry-specific: queries for startups, enterprise, small business, specific verticals

RULES:
- CRITICAL: NEVER include any specific brand or company name in the query text. All queries must be generic category-level questions.
- Write them exactly as a real person would ask an AI chatbot
- Mix short queries with longer conversational ones
- Include the current year %d in a few queries naturally
- Each query must be on its own line

FORMAT (one per line):
<query text> | <category> | <intent>

Categories: recommendation, comparison, best-of, how-to, review, alternative, general

Generate exactly %d queries:`,
		count, profile.Category,
		profile.Category, profile.Industry,
		orDefault(profile.Keywords, profile.Category),
		orDefault(profile.UniqueSellingPoints, "N/A"),
		orDefault(profile.TargetAudience, "general"),
		year(), year(), count)
}

func personaPrompt(profile *models.BrandProfile, count int) string {
	return fmt.Sprintf(`You are a GEO specialist. Generate %d realistic AI chatbot queries from different USER PERSONAS researching "%s" solutions.

CATEGORY CONTEXT:
- Category: %s
- Industry: %s
- Keywords: %s
- Target audience: %s
- Year: %d

PERSONAS TO ROTATE THROUGH:
1. Startup Founder — bootstrapped, cost-conscious but growth-focused
2. Enterprise Buyer — needs compliance (SOC 2, SSO, audit logs), evaluating for 1000+ employees
3. Budget-Conscious Manager — mid-size team, tight budget
4. Technical Lead / Developer — cares about APIs, integrations, developer experience
5. Frustrated Switcher — unhappy with current tool, looking for something better
6. First-Timer — never used this kind of tool, values simplicity
7. Agency / Consultant — managing multiple clients

RULES:
- CRITICAL: NEVER mention any specific brand or company name. These queries should sound like someone who has not chosen a product yet.
- Each query should sound like a REAL person with that persona's concerns
- Conversational and natural, varied phrasing

FORMAT (one per line):
<query text> | <category> | <intent> | <persona>

Categories: recommendation, comparison, best-of, how-to, review, alternative, general
Persona: startup-founder, enterprise-buyer, cost-optimizer, technical-evaluator, frustrated-user, first-timer, agency

Generate exactly %d queries:`,
		count, profile.Category,
		profile.Category, profile.Industry,
		orDefault(profile.Keywords, profile.Category),
		orDefault(profile.TargetAudience, "general"),
		year(), count)
}

func intentPrompt(profile *models.BrandProfile, count int) string {
	description := profile.Description
	if description == "" {
		description = "N/A"
	}

	return fmt.Sprintf(`You are a GEO specialist. Generate %d realistic AI chatbot queries covering DIFFERENT SEARCH INTENTS for the "%s" space.

CATEGORY CONTEXT:
- Category: %s
- Industry: %s
- Description: %s
- Keywords: %s
- Year: %d

INTENT TYPES TO COVER (distribute evenly):
1. COMMERCIAL — high purchase intent, ready to buy
2. INFORMATIONAL — learning about the space
3. PROBLEM-SOLVING — user has a specific pain point
4. TRUST/SAFETY — concerns about reliability, security
5. TRANSACTIONAL — ready to get started, sign up
6. COMPARATIVE — evaluating multiple options

RULES:
- CRITICAL: NEVER include any specific brand or company name in the query text.
- Distribute queries roughly evenly across the 6 intent types
- Sound like real people talking to AI chatbots
- Include %d in some queries where natural

FORMAT (one per line):
<query text> | <category> | <intent>

Categories: recommendation, comparison, best-of, how-to, review, alternative, general
Intent: commercial, informational, problem-solving, trust, security, transactional, comparative

Generate exactly %d queries:`,
		count, profile.Category,
		profile.Category, profile.Industry,
		description,
		orDefault(profile.Keywords, profile.Category),
		year(), year(), count)
}

func competitorPrompt(profile *models.BrandProfile, count int) string {
	return fmt.Sprintf(`You are a GEO specialist. Generate %d realistic AI chatbot queries about the COMPETITIVE LANDSCAPE in the "%s" space.

CATEGORY CONTEXT:
- Category: %s
- Industry: %s
- Known players in the space: %s
- Keywords: %s
- Year: %d

QUERY TYPES TO MIX:
- Alternative-seeking: "[known player] alternatives"
- Head-to-head between competitors: "[player A] vs [player B]"
- Landscape overview: "top %s tools %d"
- Switching: "thinking of switching from [known player], what are my options?"
- Value comparison: "which %s tool has the best pricing?"

RULES:
- CRITICAL: NEVER mention %s in any query. We want to see if AI models recommend it organically.
- You CAN and SHOULD use the competitor names listed above
- Sound like real people asking AI chatbots for help deciding

FORMAT (one per line):
<query text> | <category> | <intent>

Categories: comparison, alternative, recommendation, review, general
Intent: head-to-head, decision, switching, migration, evaluation, cost, use-case, landscape, trust

Generate exactly %d queries:`,
		count, profile.Category,
		profile.Category, profile.Industry,
		orDefault(profile.Competitors, "major alternatives in the space"),
		orDefault(profile.Keywords, profile.Category),
		year(),
		profile.Category, year(),
		profile.Category,
		profile.Name, count)
}
