package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

// BaseHTTPSuite drives scenarios against a live server over plain HTTP,
// keeping one cookie jar per suite so the minted identity behaves like a
// browser session.
type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	Client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("E2E_SERVER_ADDR not set, skipping end-to-end suite")
	}

	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.Client = &http.Client{Jar: jar}
}

// Step prints a colorized header for a scenario step in the logs.
func (s *BaseHTTPSuite) Step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// PostJSON sends a JSON body and decodes the JSON response into out.
func (s *BaseHTTPSuite) PostJSON(path string, body any, out any) *http.Response {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := s.Client.Post(s.Config.ServerAddr+path, "application/json", bytes.NewReader(raw))
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// GetJSON fetches a path and decodes the JSON response into out.
func (s *BaseHTTPSuite) GetJSON(path string, out any) *http.Response {
	resp, err := s.Client.Get(s.Config.ServerAddr + path)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}
