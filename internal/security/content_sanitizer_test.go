package security

import (
	"strings"
	"testing"
)

// TestSanitize_AllowedTags は許可タグが正しく通過することを検証する。
func TestSanitize_AllowedTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		// want に含まれるべき部分文字列
		wantContains []string
	}{
		{
			name:         "pタグが許可される",
			input:        "<p>テスト段落</p>",
			wantContains: []string{"<p>テスト段落</p>"},
		},
		{
			name:         "brタグが許可される",
			input:        "行1<br>行2",
			wantContains: []string{"行1", "行2"},
		},
		{
			name:         "ulタグとliタグが許可される",
			input:        "<ul><li>項目1</li><li>項目2</li></ul>",
			wantContains: []string{"<ul>", "<li>", "項目1", "項目2", "</li>", "</ul>"},
		},
		{
			name:         "olタグとliタグが許可される",
			input:        "<ol><li>手順1</li></ol>",
			wantContains: []string{"<ol>", "<li>", "手順1"},
		},
		{
			name:         "strongタグが許可される",
			input:        "<strong>強調</strong>",
			wantContains: []string{"<strong>強調</strong>"},
		},
		{
			name:         "emタグが許可される",
			input:        "<em>斜体</em>",
			wantContains: []string{"<em>斜体</em>"},
		},
		{
			name:         "codeタグが許可される",
			input:        "<code>SKU-001</code>",
			wantContains: []string{"<code>SKU-001</code>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize(%q) = %q, should contain %q", tt.input, got, want)
				}
			}
		})
	}
}

// TestSanitize_DangerousContent は危険なマークアップが除去されることを検証する。
func TestSanitize_DangerousContent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		// got に含まれてはいけない部分文字列
		wantExcludes []string
	}{
		{
			name:         "scriptタグが除去される",
			input:        `<p>説明</p><script>alert('xss')</script>`,
			wantExcludes: []string{"<script>", "alert"},
		},
		{
			name:         "iframeタグが除去される",
			input:        `<iframe src="https://evil.example.com"></iframe>`,
			wantExcludes: []string{"<iframe", "evil.example.com"},
		},
		{
			name:         "onclickイベント属性が除去される",
			input:        `<p onclick="alert(1)">クリック</p>`,
			wantExcludes: []string{"onclick", "alert"},
		},
		{
			name:         "styleタグが除去される",
			input:        `<style>body{display:none}</style><p>本文</p>`,
			wantExcludes: []string{"<style>", "display:none"},
		},
		{
			name:         "aタグは許可しない",
			input:        `<a href="https://example.com">リンク</a>`,
			wantExcludes: []string{"<a ", "href"},
		},
		{
			name:         "imgタグは許可しない",
			input:        `<img src="x" onerror="alert(1)">`,
			wantExcludes: []string{"<img", "onerror"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Sanitize(%q) = %q, should not contain %q", tt.input, got, exclude)
				}
			}
		})
	}
}

func TestSanitize_EmptyString(t *testing.T) {
	sanitizer := NewContentSanitizer()
	if got := sanitizer.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}

// TestSanitize_Idempotent は同一入力に対して常に同一出力となることを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()
	input := `<p>説明</p><script>alert(1)</script><ul><li>項目</li></ul>`

	first := sanitizer.Sanitize(input)
	second := sanitizer.Sanitize(first)
	if first != second {
		t.Errorf("Sanitize is not idempotent: %q vs %q", first, second)
	}
}

var _ ContentSanitizerService = (*contentSanitizer)(nil)
