// Command hunch-import converts an HTML identification key into a ruleset
// YAML skeleton.
//
// Field guides publish keys as nested lists: an item names a conclusion and
// the list under it names the facts that establish it. Every <li> carrying a
// nested <ul> or <ol> becomes a rule; the nested items become one AND clause,
// and items reading just "or" split their siblings into alternative clauses.
// Exclusive groups cannot be read off an outline, so the skeleton never has
// any; add them by hand before playing.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/hunchworks/hunch/pkg/hunch/config"
)

var (
	inPath  = flag.String("in", "", "HTML identification key to convert (required)")
	outPath = flag.String("out", "", "Where to write the YAML skeleton (default stdout)")
	title   = flag.String("title", "", "Title for the generated rule set")
)

func main() {
	flag.Parse()
	if *inPath == "" {
		log.Fatal("Error: -in flag is required")
	}

	f, err := os.Open(*inPath)
	if err != nil {
		log.Fatal("Failed to open input:", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		log.Fatal("Failed to parse HTML:", err)
	}

	outline := findList(doc)
	if outline == nil {
		log.Fatal("No <ul> or <ol> outline found in input")
	}

	rules := make(map[string][][]string)
	hypotheses := collectRules(outline, rules)
	if len(rules) == 0 {
		log.Fatal("Outline has no nested items; nothing to convert")
	}

	rs := config.Ruleset{Title: *title, Rules: rules}
	out, err := yaml.Marshal(&rs)
	if err != nil {
		log.Fatal("Failed to render YAML:", err)
	}

	if *outPath == "" {
		os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		log.Fatal("Failed to write output:", err)
	}
	log.Printf("✓ Wrote %d rules (%d top-level hypotheses) to %s", len(rules), len(hypotheses), *outPath)
}

// findList returns the first <ul> or <ol> in the document.
func findList(n *html.Node) *html.Node {
	if isList(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if list := findList(c); list != nil {
			return list
		}
	}
	return nil
}

func isList(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "ul" || n.Data == "ol")
}

// collectRules converts every item of a list, adding a rule for each item
// that carries a nested list. It returns the items' fact names in document
// order.
func collectRules(list *html.Node, rules map[string][][]string) []string {
	var facts []string
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		if fact, ok := itemRule(li, rules); ok {
			facts = append(facts, fact)
		}
	}
	return facts
}

// itemRule converts one <li>. The item's own text is the fact name; the
// nested list, when present, defines the fact's clauses. An item reading
// just "or" is a separator between alternative clauses, matching how keys
// set alternatives apart.
func itemRule(li *html.Node, rules map[string][][]string) (string, bool) {
	fact := itemLabel(li)
	if fact == "" {
		return "", false
	}

	sub := childList(li)
	if sub == nil {
		return fact, true
	}

	var clauses [][]string
	var current []string
	for item := sub.FirstChild; item != nil; item = item.NextSibling {
		if item.Type != html.ElementNode || item.Data != "li" {
			continue
		}
		member, ok := itemRule(item, rules)
		if !ok {
			continue
		}
		if strings.EqualFold(member, "or") {
			if len(current) > 0 {
				clauses = append(clauses, current)
				current = nil
			}
			continue
		}
		current = append(current, member)
	}
	if len(current) > 0 {
		clauses = append(clauses, current)
	}

	if len(clauses) > 0 {
		// The same conclusion can appear in several sections of a key.
		rules[fact] = append(rules[fact], clauses...)
	}
	return fact, true
}

// childList returns the item's nested <ul> or <ol>, if any.
func childList(li *html.Node) *html.Node {
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if isList(c) {
			return c
		}
	}
	return nil
}

// itemLabel extracts the item's own text, skipping any nested list.
func itemLabel(li *html.Node) string {
	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if isList(n) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		extractText(c)
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}
