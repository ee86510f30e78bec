package content

import (
	"bytes"
	"html/template"
	"math/rand/v2"
	"strings"
)

// Entry is one curated quote with a short explanation.
type Entry struct {
	Quote       string `yaml:"quote" json:"quote"`
	Explanation string `yaml:"explanation" json:"explanation"`
}

var defaultEntries = []Entry{
	{
		Quote:       "即使翅膀断了，心也要飞翔。",
		Explanation: "困境能折断的只是外在的条件，真正决定高度的是内心不肯放弃的那份向往。",
	},
	{
		Quote:       "星光不问赶路人，时光不负有心人。",
		Explanation: "每一份默默的努力都在积累，只要方向对了，时间会给出答案。",
	},
	{
		Quote:       "种一棵树最好的时间是十年前，其次是现在。",
		Explanation: "不必为错过的开始懊恼，今天迈出的第一步就是改变的起点。",
	},
	{
		Quote:       "你若盛开，清风自来。",
		Explanation: "把精力放在让自己变得更好上，美好的人和事会自然靠近。",
	},
	{
		Quote:       "不积跬步，无以至千里。",
		Explanation: "再远的目标也由一小步一小步组成，坚持每天前进一点点。",
	},
	{
		Quote:       "凡是过往，皆为序章。",
		Explanation: "昨天的成败都只是铺垫，真正精彩的篇章从今天开始书写。",
	},
	{
		Quote:       "生活不会辜负每一个认真努力的人。",
		Explanation: "认真对待每一天，生活会在不经意间回馈你温暖与惊喜。",
	},
	{
		Quote:       "山高自有客行路，水深自有渡船人。",
		Explanation: "再难的处境也总有出路，保持信念，办法会在前进中出现。",
	},
}

// DefaultEntries returns a copy of the built-in fallback entries.
func DefaultEntries() []Entry {
	out := make([]Entry, len(defaultEntries))
	copy(out, defaultEntries)
	return out
}

// Pool is a fixed set of fallback entries. It is safe for concurrent reads.
type Pool struct {
	entries []Entry
}

// NewPool builds a pool from the built-in entries plus any extras.
// Extras with an empty quote are skipped.
func NewPool(extra ...Entry) *Pool {
	entries := DefaultEntries()
	for _, e := range extra {
		if strings.TrimSpace(e.Quote) == "" {
			continue
		}
		entries = append(entries, Entry{
			Quote:       strings.TrimSpace(e.Quote),
			Explanation: strings.TrimSpace(e.Explanation),
		})
	}
	return &Pool{entries: entries}
}

// Len returns the number of entries in the pool.
func (p *Pool) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the pool contents.
func (p *Pool) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Pick returns one entry chosen uniformly at random.
// A nil r uses the package-level generator.
func (p *Pool) Pick(r *rand.Rand) Entry {
	if len(p.entries) == 0 {
		return defaultEntries[0]
	}
	if r == nil {
		return p.entries[rand.IntN(len(p.entries))]
	}
	return p.entries[r.IntN(len(p.entries))]
}

var fallbackTmpl = template.Must(template.New("fallback").Parse(`<div style="padding: 16px; border-radius: 8px; background: #fffaf0;">
  <h2 style="color: #d2691e; margin-top: 0;">🌟 今日心灵鸡汤</h2>
  <blockquote style="font-size: 1.2em; border-left: 4px solid #f4a460; padding-left: 1em; margin: 1em 0;">
    <strong>{{.Quote}}</strong>
  </blockquote>
  <p style="color: #555;">{{.Explanation}}</p>
  <p style="font-size: 0.85em; color: #999;">注：今日内容来自精选语录库。</p>
</div>`))

// RenderFallback renders an entry into a markup fragment.
// The output depends only on the entry.
func RenderFallback(e Entry) string {
	var buf bytes.Buffer
	if err := fallbackTmpl.Execute(&buf, e); err != nil {
		// Entry has only string fields; Execute cannot fail on it.
		return "<div><p>" + template.HTMLEscapeString(e.Quote) + "</p></div>"
	}
	return buf.String()
}
