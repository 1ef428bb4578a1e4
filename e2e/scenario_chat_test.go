package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Alex7k/websocket-chat/api"
	"github.com/Alex7k/websocket-chat/domain"
)

type testChatSuite struct {
	BaseHTTPSuite
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, &testChatSuite{})
}

func (s *testChatSuite) TestPostAndReadBack() {
	var posted domain.MessageDTO

	s.Run("Step 1: Post a message as a fresh client", func() {
		s.Step(s.T(), "POST /messages")
		resp := s.PostJSON("/messages", map[string]string{"text": "hello from e2e"}, &posted)
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
		s.Require().Equal(posted.Username, posted.DisplayName)
	})

	s.Run("Step 2: The message is the most recent history row", func() {
		s.Step(s.T(), "GET /messages")
		var hist api.MessagesResponse
		resp := s.GetJSON("/messages?limit=10", &hist)
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		s.Require().NotEmpty(hist.Messages)
		s.Require().Equal(posted, hist.Messages[len(hist.Messages)-1])
	})

	s.Run("Step 3: Identity is stable across calls", func() {
		s.Step(s.T(), "GET /identity")
		var first, second api.IdentityResponse
		s.GetJSON("/identity", &first)
		s.GetJSON("/identity", &second)
		s.Require().Equal(first.Username, second.Username)
		s.Require().Equal(posted.Username, first.Username)
	})
}

func (s *testChatSuite) TestValidationError() {
	s.Step(s.T(), "POST /messages with empty text")
	var errResp api.ErrorResponse
	resp := s.PostJSON("/messages", map[string]string{"text": ""}, &errResp)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().Equal(api.KindValidation, errResp.Error)
}

func (s *testChatSuite) TestHealth() {
	s.Step(s.T(), "GET /health")
	var health api.HealthResponse
	resp := s.GetJSON("/health", &health)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Equal("ok", health.Status)
}
