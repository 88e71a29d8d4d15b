package adapter

import (
	"encoding/json"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// ldProduct holds the fields extracted from a schema.org Product node.
// Price and currency stay raw strings; the price parser decides usability.
type ldProduct struct {
	Name        string
	Brand       string
	Price       string
	Currency    string
	Image       string
	Rating      float64
	ReviewCount int
}

// findProduct scans the script-embedded JSON-LD blocks of a document for the
// first Product node and extracts whatever fields it carries. schema.org
// markup is polymorphic in the wild: the top level may be an object or an
// array, brand may be a string or an object, offers may be an object or an
// array, and price may live on the offer or under priceSpecification.
// Malformed blocks are skipped, never an error.
func findProduct(doc *goquery.Document) *ldProduct {
	var product *ldProduct

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}

		nodes, ok := data.([]interface{})
		if !ok {
			nodes = []interface{}{data}
		}

		for _, n := range nodes {
			node, ok := n.(map[string]interface{})
			if !ok {
				continue
			}
			if !isType(node, "Product") {
				continue
			}
			product = productFromNode(node)
			return false
		}
		return true
	})

	return product
}

func productFromNode(node map[string]interface{}) *ldProduct {
	p := &ldProduct{}
	p.Name = asString(node["name"])

	switch b := node["brand"].(type) {
	case string:
		p.Brand = b
	case map[string]interface{}:
		p.Brand = asString(b["name"])
	}

	if offers := firstObject(node["offers"]); offers != nil {
		p.Price = asString(offers["price"])
		p.Currency = asString(offers["priceCurrency"])
		if spec, ok := offers["priceSpecification"].(map[string]interface{}); ok {
			if p.Price == "" {
				p.Price = asString(spec["price"])
			}
			if p.Currency == "" {
				p.Currency = asString(spec["priceCurrency"])
			}
		}
	}

	if ar, ok := node["aggregateRating"].(map[string]interface{}); ok {
		if v, err := strconv.ParseFloat(asString(ar["ratingValue"]), 64); err == nil {
			p.Rating = v
		}
		if v, err := strconv.Atoi(asString(ar["reviewCount"])); err == nil {
			p.ReviewCount = v
		}
	}

	switch img := node["image"].(type) {
	case string:
		p.Image = img
	case []interface{}:
		if len(img) > 0 {
			p.Image = asString(img[0])
		}
	case map[string]interface{}:
		p.Image = asString(img["url"])
	}

	return p
}

// isType matches @type whether it is a string or a list of strings
func isType(node map[string]interface{}, want string) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == want
	case []interface{}:
		for _, v := range t {
			if asString(v) == want {
				return true
			}
		}
	}
	return false
}

// firstObject unwraps a value that may be an object or a non-empty array of objects
func firstObject(v interface{}) map[string]interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return t
	case []interface{}:
		if len(t) > 0 {
			if m, ok := t[0].(map[string]interface{}); ok {
				return m
			}
		}
	}
	return nil
}

// asString renders a JSON scalar as a string; numbers keep their shortest form
func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}
