package diff_test

import (
	"strings"
	"testing"

	"github.com/speccloak/speccloak/internal/domain"
	"github.com/speccloak/speccloak/internal/domain/diff"
	"github.com/stretchr/testify/assert"
)

func TestParseChangedLines_MultipleHunksKeepOrder(t *testing.T) {
	input := "@@ -1 +2 @@\n+x\n@@ -5 +10,2 @@\n+a\n+b"
	assert.Equal(t, domain.ChangedLineSet{2, 10, 11}, diff.ParseChangedLines(input))
}

func TestParseChangedLines_MissingCountIsOneLine(t *testing.T) {
	for _, header := range []string{"@@ -3 +7 @@", "@@ -3,4 +7 @@ def call", "@@ -0,0 +7"} {
		assert.Equal(t, domain.ChangedLineSet{7}, diff.ParseChangedLines(header), header)
	}
}

func TestParseChangedLines_ZeroCountContributesNothing(t *testing.T) {
	input := "@@ -4,2 +3,0 @@\n-old\n-old\n@@ -9 +8,3 @@\n+a\n+b\n+c\n"
	assert.Equal(t, domain.ChangedLineSet{8, 9, 10}, diff.ParseChangedLines(input))
}

func TestParseChangedLines_FullGitDiff(t *testing.T) {
	input := `diff --git a/app/models/user.rb b/app/models/user.rb
index 3b18e51..a9c2f0d 100644
--- a/app/models/user.rb
+++ b/app/models/user.rb
@@ -12,0 +13,2 @@ class User
+  def admin?
+  end
@@ -40 +42 @@ class User
-    false
+    true
`
	assert.Equal(t, domain.ChangedLineSet{13, 14, 42}, diff.ParseChangedLines(input))
}

func TestParseChangedLines_MalformedHeadersSkipped(t *testing.T) {
	input := "@@ garbage @@\n@@ -a +b @@\n@@@ -1 +1 @@@\n@@ -1 +5,2 @@\n"
	assert.Equal(t, domain.ChangedLineSet{5, 6}, diff.ParseChangedLines(input))
}

func TestParseChangedLines_OverlappingHunksNotDeduplicated(t *testing.T) {
	input := "@@ -1 +3,2 @@\n@@ -1 +4,2 @@\n"
	assert.Equal(t, domain.ChangedLineSet{3, 4, 4, 5}, diff.ParseChangedLines(input))
}

func TestParseChangedLines_EmptyDiff(t *testing.T) {
	assert.Empty(t, diff.ParseChangedLines(""))
}

func TestParseHunks(t *testing.T) {
	hunks := diff.ParseHunks("@@ -1,3 +1,4 @@\n@@ -20 +21 @@\n")
	assert.Equal(t, []diff.Hunk{{Start: 1, Count: 4}, {Start: 21, Count: 1}}, hunks)
	assert.Equal(t, []int{1, 2, 3, 4}, hunks[0].Lines())
}

func TestParseChangedLines_HunksAfterVeryLongLine(t *testing.T) {
	long := "+" + strings.Repeat("x", 2*1024*1024)
	input := "@@ -1 +1 @@\n" + long + "\n@@ -5 +10,2 @@\n+a\n+b\n"
	assert.Equal(t, domain.ChangedLineSet{1, 10, 11}, diff.ParseChangedLines(input))
}
