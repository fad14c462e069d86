package useragent

import (
	"fmt"
	"os"
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Parser turns User-Agent strings into short device labels for sessions
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// DeviceInfo represents parsed device information
type DeviceInfo struct {
	DeviceType string // mobile, desktop, tablet, cli, unknown
	Browser    string // Chrome, Firefox, Safari, niyyah-focus, etc.
	OS         string // Windows, iOS, Android, etc.
	Raw        string // Original User-Agent string
}

// Label returns a human readable device label, e.g. "Firefox on Linux"
func (d *DeviceInfo) Label() string {
	switch {
	case d.Browser == "unknown" && d.OS == "unknown":
		return "Unknown device"
	case d.OS == "unknown":
		return d.Browser
	case d.Browser == "unknown":
		return d.OS
	}
	return fmt.Sprintf("%s on %s", d.Browser, d.OS)
}

// NewParser creates a parser from a regexes file. An empty path uses the
// definitions bundled with uap-go.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	if regexFilePath == "" {
		log.Debug("User-Agent parser initialized from bundled regexes")
		return &Parser{parser: uaparser.NewFromSaved(), log: log}, nil
	}

	regexBytes, err := os.ReadFile(regexFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read regexes file: %w", err)
	}

	parser, err := uaparser.NewFromBytes(regexBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create User-Agent parser: %w", err)
	}

	log.Info("User-Agent parser initialized successfully", zap.String("regexes_file", regexFilePath))

	return &Parser{
		parser: parser,
		log:    log,
	}, nil
}

// ParseUserAgent parses a User-Agent string and returns device information
func (p *Parser) ParseUserAgent(userAgent string) *DeviceInfo {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return &DeviceInfo{
			DeviceType: "unknown",
			Browser:    "unknown",
			OS:         "unknown",
		}
	}

	// terminal clients: "niyyah-focus/0.3 (linux; amd64)"
	if !strings.HasPrefix(userAgent, "Mozilla/") {
		if product, osName, ok := parseProductToken(userAgent); ok {
			if osName == "" {
				osName = "unknown"
			}
			return &DeviceInfo{DeviceType: "cli", Browser: product, OS: osName, Raw: userAgent}
		}
	}

	client := p.parser.Parse(userAgent)

	deviceInfo := &DeviceInfo{
		Browser:    formatString(client.UserAgent.Family),
		OS:         formatString(client.Os.Family),
		DeviceType: determineDeviceType(client, userAgent),
		Raw:        userAgent,
	}

	p.log.Debug("parsed User-Agent",
		zap.String("user_agent", userAgent),
		zap.String("device_type", deviceInfo.DeviceType),
		zap.String("browser", deviceInfo.Browser),
		zap.String("os", deviceInfo.OS),
	)

	return deviceInfo
}

// Label is a shortcut for ParseUserAgent(userAgent).Label()
func (p *Parser) Label(userAgent string) string {
	return p.ParseUserAgent(userAgent).Label()
}

// determineDeviceType determines the device type based on parsed client info and raw User-Agent
func determineDeviceType(client *uaparser.Client, userAgent string) string {
	deviceFamily := client.Device.Family
	if deviceFamily != "" && deviceFamily != "Other" {
		if containsAny(deviceFamily, "iPad", "Tablet", "Kindle", "Surface") {
			return "tablet"
		}
		if containsAny(deviceFamily, "iPhone", "Android", "Mobile", "Phone") {
			return "mobile"
		}
	}

	osFamily := client.Os.Family
	if containsAny(osFamily, "iOS", "Android", "Windows Phone") {
		if containsAny(userAgent, "iPad") || (containsAny(osFamily, "Android") && !containsAny(userAgent, "Mobile")) {
			return "tablet"
		}
		return "mobile"
	}

	if containsAny(osFamily, "Windows", "Mac OS X", "macOS", "Linux", "Ubuntu", "Chrome OS", "FreeBSD") {
		return "desktop"
	}

	return "unknown"
}

// parseProductToken reads "name/version (os; arch)"
func parseProductToken(userAgent string) (product, osName string, ok bool) {
	name, rest, found := strings.Cut(userAgent, "/")
	if !found || name == "" || strings.ContainsAny(name, " ()") {
		return "", "", false
	}
	if open := strings.Index(rest, "("); open >= 0 {
		if end := strings.Index(rest[open:], ")"); end > 0 {
			inner := rest[open+1 : open+end]
			first, _, _ := strings.Cut(inner, ";")
			osName = osDisplayName(strings.TrimSpace(first))
		}
	}
	return name, osName, true
}

func osDisplayName(goos string) string {
	switch strings.ToLower(goos) {
	case "linux":
		return "Linux"
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	}
	return goos
}

// Helper functions

func containsAny(str string, substrs ...string) bool {
	lower := strings.ToLower(str)
	for _, s := range substrs {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// formatString formats a string, replacing empty with "unknown"
func formatString(s string) string {
	if s == "" || s == "Other" {
		return "unknown"
	}
	return s
}
