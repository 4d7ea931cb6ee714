// Package headhunter is a client for the hh.ru API used as a job listing source.
package headhunter

import (
	"context"
	"net/http"
	"time"

	"github.com/spigell/talentalign/internal/jobs"
	"github.com/spigell/talentalign/internal/utils"
	"go.uber.org/zap"
)

const (
	apiURL        = "https://api.hh.ru"
	mineResumesID = "mine"
	userAgent     = "spigell/talentalign (spigelly@gmail.com)"
	// Max value for search per page.
	perPage = "100"
	// SourceName tags jobs that came from hh.ru.
	SourceName = "hh.ru"
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	// DetailDelay is a pause between vacancy detail requests.
	DetailDelay time.Duration
}

func New(logger *zap.Logger, token string) *Client {
	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// HasToken reports whether requests are authorized. Search works
// anonymously; resumes and negotiations need a token.
func (c *Client) HasToken() bool {
	return c.token != ""
}

func (c *Client) Search(ctx context.Context, params *SearchParams) (*Vacancies, error) {
	return c.search(ctx, params)
}

func (c *Client) GetMineResumes(ctx context.Context) (*Resumes, error) {
	return c.getResumes(ctx, mineResumesID)
}

// SearchJobs runs a search and converts the result to jobs. With details
// every vacancy is fetched again to get its full description and key
// skills; a failed detail request keeps the search snippet.
func (c *Client) SearchJobs(ctx context.Context, params *SearchParams, details bool) (*jobs.Jobs, error) {
	vacancies, err := c.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	c.logger.Info("got vacancies from hh.ru", zap.Int("count", vacancies.Len()), zap.Bool("details", details))

	if !details {
		return vacancies.ToJobs(), nil
	}

	for idx, vacancy := range vacancies.Items {
		if idx > 0 {
			if err := utils.WaitFor(ctx, c.DetailDelay); err != nil {
				return nil, err
			}
		}

		full, err := c.GetVacancy(ctx, vacancy.ID)
		if err != nil {
			c.logger.Warn("failed to get vacancy details, using search snippet",
				zap.String("vacancy_id", vacancy.ID),
				zap.Error(err),
			)
			continue
		}

		vacancies.Items[idx] = full
	}

	return vacancies.ToJobs(), nil
}
