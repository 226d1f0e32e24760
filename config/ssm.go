package config

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// LoadSSM overlays every parameter below prefix onto c. The last path
// segment, upper-cased, becomes the key: /site/prod/token_secret -> TOKEN_SECRET.
func LoadSSM(ctx context.Context, c *Config, client ssm.GetParametersByPathAPIClient, prefix string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return loaded, err
		}
		for _, p := range page.Parameters {
			if p.Name == nil || p.Value == nil {
				continue
			}
			key := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			if err := c.Set(key, aws.ToString(p.Value)); err != nil {
				return loaded, err
			}
			loaded++
		}
	}

	log.Info().Str("prefix", prefix).Int("count", loaded).Msg("loaded parameters from SSM")
	return loaded, nil
}
