package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pion/webrtc/v4"
)

// ICEServers builds the ICE server list handed out to rooms. TURN entries
// require both username and credential.
func (c *ICEConfig) ICEServers() ([]webrtc.ICEServer, error) {
	stunList := splitCommaSeparated(c.StunURLs)
	turnList := splitCommaSeparated(c.TurnURLs)

	var servers []webrtc.ICEServer
	if len(stunList) > 0 {
		server := webrtc.ICEServer{URLs: stunList}
		if err := validateICEServer(server); err != nil {
			return nil, fmt.Errorf("STUN_URLS: %w", err)
		}
		servers = append(servers, server)
	}

	if len(turnList) > 0 {
		username := strings.TrimSpace(c.TurnUsername)
		credential := strings.TrimSpace(c.TurnCredential)
		if username == "" || credential == "" {
			return nil, errors.New("TURN_USERNAME/TURN_CREDENTIAL: both must be set when TURN_URLS is set")
		}
		server := webrtc.ICEServer{
			URLs:       turnList,
			Username:   username,
			Credential: credential,
		}
		if err := validateICEServer(server); err != nil {
			return nil, fmt.Errorf("TURN_URLS: %w", err)
		}
		servers = append(servers, server)
	}

	if len(servers) == 0 {
		return nil, errors.New("no ICE servers configured")
	}
	return servers, nil
}

func splitCommaSeparated(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func validateICEServer(server webrtc.ICEServer) error {
	if len(server.URLs) == 0 {
		return errors.New("missing urls")
	}
	for _, url := range server.URLs {
		if !isAllowedICEScheme(url) {
			return fmt.Errorf("unsupported url scheme: %q", url)
		}
	}
	return nil
}

func isAllowedICEScheme(url string) bool {
	switch {
	case strings.HasPrefix(url, "stun:"),
		strings.HasPrefix(url, "stuns:"),
		strings.HasPrefix(url, "turn:"),
		strings.HasPrefix(url, "turns:"):
		return true
	default:
		return false
	}
}
