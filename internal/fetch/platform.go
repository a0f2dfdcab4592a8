package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board with known page structure.
type Platform string

// Known job boards.
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type boardProfile struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var boards = []boardProfile{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"[class*='_descriptionText']", "._description", "main"},
		noise:    []string{"[class*='_applicationForm']"},
	},
}

// Application forms, EEO notices and share widgets appear on most boards.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".eeo-section",
	".voluntary-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board a URL points at.
func DetectPlatform(rawURL string) Platform {
	if b, ok := lookupBoard(rawURL); ok {
		return b.platform
	}
	return PlatformUnknown
}

func lookupBoard(rawURL string) (boardProfile, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return boardProfile{}, false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, b := range boards {
		for _, h := range b.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return b, true
			}
		}
	}
	return boardProfile{}, false
}

// ContentSelectors returns the selectors that locate the posting body on a board.
func ContentSelectors(p Platform) []string {
	for _, b := range boards {
		if b.platform == p {
			return append([]string(nil), b.content...)
		}
	}
	return JobPostingSelectors()
}

// NoiseSelectors returns the elements to drop before reading a board's page.
func NoiseSelectors(p Platform) []string {
	out := append([]string(nil), commonNoise...)
	for _, b := range boards {
		if b.platform == p {
			return append(out, b.noise...)
		}
	}
	return out
}
