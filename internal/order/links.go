package order

import (
	"errors"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const linkIssuer = "storefront-downloads"

var ErrInvalidLink = errors.New("invalid download link")

// DownloadLink grants access to one product of one order until ExpiresAt.
type DownloadLink struct {
	ProductID string    `json:"product_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type DownloadClaims struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	jwt.RegisteredClaims
}

// LinkIssuer signs download links with HS256.
type LinkIssuer struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

func NewLinkIssuer(secret []byte, baseURL string, ttl time.Duration) *LinkIssuer {
	return &LinkIssuer{
		secret:  secret,
		baseURL: baseURL,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (l *LinkIssuer) Issue(orderID, productID string) (DownloadLink, error) {
	now := l.now()
	exp := now.Add(l.ttl)

	claims := DownloadClaims{
		OrderID:   orderID,
		ProductID: productID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   productID,
			Issuer:    linkIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return DownloadLink{}, err
	}

	return DownloadLink{
		ProductID: productID,
		URL:       l.baseURL + "/downloads/" + url.PathEscape(tok),
		ExpiresAt: exp.UTC().Truncate(time.Second),
	}, nil
}

func (l *LinkIssuer) Parse(tokenStr string) (DownloadClaims, error) {
	var c DownloadClaims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(*jwt.Token) (any, error) {
		return l.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(linkIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil || token == nil || !token.Valid {
		return DownloadClaims{}, ErrInvalidLink
	}
	if c.OrderID == "" || c.ProductID == "" {
		return DownloadClaims{}, ErrInvalidLink
	}

	return c, nil
}
