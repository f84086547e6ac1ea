package config

import (
	"fmt"
	"net/url"
	"time"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
//
// The Canvas credentials are NOT required here: a missing api_url or
// api_token is a reportable condition (health tool), not a startup
// failure. A PRESENT api_url must still be well formed.
func (c *Config) Validate() error {
	// 0. Check for nil config (defensive programming)
	if c == nil {
		return ErrConfigNil
	}

	// 1. Canvas base URL: optional, but must parse when set
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAPIURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidAPIURL, u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("%w: missing host in %q", ErrInvalidAPIURL, c.APIURL)
		}
	}

	// 2. Pagination page size: Canvas clamps at 100 server-side
	if c.PerPage < 1 || c.PerPage > MaxPerPage {
		return fmt.Errorf("%w: must be between 1 and %d, got %d", ErrInvalidPerPage, MaxPerPage, c.PerPage)
	}

	// 3. Request timeout
	if c.RequestTimeout < time.Second || c.RequestTimeout > MaxRequestTimeout {
		return fmt.Errorf("%w: must be between 1s and %s, got %s", ErrInvalidTimeout, MaxRequestTimeout, c.RequestTimeout)
	}

	// 4. Outbound rate limiting
	if c.RateLimit <= 0 {
		return fmt.Errorf("%w: must be positive, got %g", ErrInvalidRateLimit, c.RateLimit)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("%w: must be at least 1, got %d", ErrInvalidRateBurst, c.RateBurst)
	}

	// 5. Response size cap
	if c.MaxResponseBytes < MinResponseBytes {
		return fmt.Errorf("%w: must be at least %d bytes, got %d", ErrInvalidResponseLimit, MinResponseBytes, c.MaxResponseBytes)
	}

	// 6. Serve-mode burst: 0 means "use default", negative is a mistake
	if c.HTTPRateBurst < 0 {
		return fmt.Errorf("%w: http_rate_burst must not be negative, got %d", ErrInvalidRateBurst, c.HTTPRateBurst)
	}

	return nil
}
