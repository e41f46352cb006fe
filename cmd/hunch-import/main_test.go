package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const keyHTML = `<!DOCTYPE html>
<html><body>
<h1>Shore birds</h1>
<p>Work down the key until one name fits.</p>
<ul>
  <li>penguin
    <ul>
      <li>bird
        <ul>
          <li>has <em>feathers</em></li>
          <li><em>or</em></li>
          <li>flies</li>
          <li>lays eggs</li>
        </ul>
      </li>
      <li>swims</li>
    </ul>
  </li>
  <li>stray note</li>
</ul>
</body></html>`

func TestCollectRules(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(keyHTML))
	require.NoError(t, err)

	outline := findList(doc)
	require.NotNil(t, outline)

	rules := make(map[string][][]string)
	tops := collectRules(outline, rules)

	assert.Equal(t, []string{"penguin", "stray note"}, tops)
	assert.Equal(t, [][]string{{"bird", "swims"}}, rules["penguin"])
	assert.Equal(t, [][]string{{"has feathers"}, {"flies", "lays eggs"}}, rules["bird"])
	assert.NotContains(t, rules, "stray note")
}

func TestItemLabelNormalizesMarkup(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<ul><li>  has   a
		<b>square</b> head <ul><li>ignored</li></ul></li></ul>`))
	require.NoError(t, err)

	outline := findList(doc)
	require.NotNil(t, outline)

	var li *html.Node
	for c := outline.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			li = c
			break
		}
	}
	require.NotNil(t, li)
	assert.Equal(t, "has a square head", itemLabel(li))
}
