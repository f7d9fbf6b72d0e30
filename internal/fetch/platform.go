package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known applicant tracking system.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformAshby is the Ashby ATS platform
	PlatformAshby Platform = "ashby"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

type platformRules struct {
	hosts   []string
	content []string
	noise   []string
}

var platforms = map[Platform]platformRules{
	PlatformGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts:   []string{"workday.com", "myworkdayjobs.com"},
		content: []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	PlatformAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"[class*='_descriptionText']", "[class*='_description']", "main"},
		noise:   []string{"[class*='_applicationForm']", "[class*='_footer']"},
	},
}

// commonNoise is removed from every posting regardless of platform.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	"[data-testid='application-form']",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())

	for platform, rules := range platforms {
		for _, suffix := range rules.hosts {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform, ending
// with the generic job posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	rules, ok := platforms[platform]
	if !ok {
		return JobPostingSelectors()
	}
	return append(append([]string{}, rules.content...), JobPostingSelectors()...)
}

// PlatformNoiseSelectors returns noise exclusion selectors for a platform.
func PlatformNoiseSelectors(platform Platform) []string {
	out := append([]string{}, commonNoise...)
	return append(out, platforms[platform].noise...)
}
