// Package itemid turns pasted listing URLs or bare ids into the keys stored
// in the viewed-items collection.
package itemid

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

type rule struct {
	re     *regexp.Regexp
	format func(id string) string
}

func prefixed(prefix string) func(string) string {
	return func(id string) string { return prefix + id }
}

func auction(id string) string {
	if strings.HasPrefix(id, "z") {
		return "paypay_" + id
	}
	return "yahoo_" + id
}

// Order matters: PayPay Flea Market must win over the generic Yahoo rules.
var rules = []rule{
	{regexp.MustCompile(`paypayfleamarket\.yahoo\.co\.jp/item/([a-zA-Z0-9]+)`), prefixed("paypay_")},
	{regexp.MustCompile(`jp\.mercari\.com/item/([a-zA-Z0-9]+)`), prefixed("")},
	{regexp.MustCompile(`jp\.mercari\.com/shops/product/([a-zA-Z0-9]+)`), prefixed("shop_")},
	{regexp.MustCompile(`item\.fril\.jp/([a-zA-Z0-9]+)`), prefixed("")},
	{regexp.MustCompile(`item\.rakuten\.co\.jp/([^?#]+)`), func(path string) string {
		return "rakuten_" + strings.TrimSuffix(path, "/")
	}},
	{regexp.MustCompile(`page\.auctions\.yahoo\.co\.jp/jp/auction/([a-zA-Z0-9]+)`), auction},
	{regexp.MustCompile(`auctions\.yahoo\.co\.jp.*/([a-zA-Z0-9]{10,})`), auction},
}

var bareMercari = regexp.MustCompile(`^m[a-zA-Z0-9]+$`)

// Extract returns the stored key for a listing URL or bare Mercari id.
// Full-width characters from IME input are folded first.
func Extract(input string) (string, bool) {
	input = strings.TrimSpace(width.Fold.String(input))
	if input == "" {
		return "", false
	}

	for _, r := range rules {
		if m := r.re.FindStringSubmatch(input); m != nil {
			return r.format(m[1]), true
		}
	}
	if bareMercari.MatchString(input) {
		return input, true
	}
	return "", false
}

// Result counts the outcome of registering a batch of pasted lines.
type Result struct {
	Added   int `json:"added" yaml:"added"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Invalid int `json:"invalid" yaml:"invalid"`
}

// Lines splits pasted text into non-blank lines.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
