package analysis

import (
	"math"
	"net/url"
	"regexp"
	"sort"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// Citation detects the URLs cited across responses and aggregates them by
// domain. CitationRate is the percentage of responses citing at least one
// source; TopSources keeps the ten most cited domains.
func Citation(results []models.QueryResult) models.CitationScore {
	valid := validResults(results)
	if len(valid) == 0 {
		return models.CitationScore{}
	}

	counts := map[string]int{}
	domainProviders := map[string]map[string]bool{}
	byProvider := map[string]int{}
	withCitations := 0

	for _, r := range valid {
		urls := urlPattern.FindAllString(r.Response, -1)
		if len(urls) > 0 {
			withCitations++
			byProvider[r.Provider]++
		}

		for _, raw := range urls {
			u, err := url.Parse(raw)
			if err != nil || u.Host == "" {
				continue
			}

			counts[u.Host]++

			if domainProviders[u.Host] == nil {
				domainProviders[u.Host] = map[string]bool{}
			}

			domainProviders[u.Host][r.Provider] = true
		}
	}

	total := 0
	domains := make([]string, 0, len(counts))

	for domain, c := range counts {
		total += c

		domains = append(domains, domain)
	}

	sort.Slice(domains, func(i, j int) bool {
		if counts[domains[i]] != counts[domains[j]] {
			return counts[domains[i]] > counts[domains[j]]
		}

		return domains[i] < domains[j]
	})

	if len(domains) > 10 {
		domains = domains[:10]
	}

	topSources := make([]models.CitationSource, 0, len(domains))

	for _, domain := range domains {
		providers := make([]string, 0, len(domainProviders[domain]))
		for p := range domainProviders[domain] {
			providers = append(providers, p)
		}

		sort.Strings(providers)

		topSources = append(topSources, models.CitationSource{
			Source:    domain,
			Count:     counts[domain],
			Providers: providers,
		})
	}

	rate := float64(withCitations) / float64(len(valid)) * 100

	return models.CitationScore{
		TotalCitations:     total,
		UniqueSourcesCited: len(counts),
		CitationRate:       math.Round(rate*10) / 10,
		ByProvider:         byProvider,
		TopSources:         topSources,
	}
}
