//go:build e2e

package client

import (
	"context"
	"testing"

	"github.com/caarlos0/env/v10"
	dotenv "github.com/dsh2dsh/expx-dotenv"
	"github.com/stretchr/testify/suite"
)

const appleCIK = "0000320193"

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

type ClientTestSuite struct {
	suite.Suite
	client *Client
}

func (self *ClientTestSuite) SetupSuite() {
	cfg := struct {
		UA string `env:"EDGAR_UA,notEmpty"`
	}{}
	self.Require().NoError(dotenv.Load(func() error { return env.Parse(&cfg) }))
	self.client = New().WithUserAgent(cfg.UA)
}

func (self *ClientTestSuite) TestSubmissions() {
	subs, err := self.client.Submissions(context.Background(), appleCIK)
	self.Require().NoError(err)
	self.Equal("Apple Inc.", subs.Name)
	self.NotEmpty(subs.Recent())
}

func (self *ClientTestSuite) TestCompanyTickers() {
	byTicker, err := self.client.CompanyTickers(context.Background())
	self.Require().NoError(err)
	self.Equal(appleCIK, byTicker["AAPL"].CIK10())
}
