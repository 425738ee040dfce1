package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const galleryPage = `
<div class="gallery">
  <a class="block-wrapper-link fade link-to-software" href="https://example.com/software/greengrid">
    <h5>GreenGrid</h5>
  </a>
  <a class="block-wrapper-link fade link-to-software" href="https://example.com/software/medibot">
    <h5>MediBot</h5>
  </a>
  <a class="link-to-software" href="https://example.com/software/greengrid">
    <h5>GreenGrid again</h5>
  </a>
  <a href="https://example.com/about">About</a>
</div>`

func TestExtractProjectLinks(t *testing.T) {
	links := ExtractProjectLinks(galleryPage)
	assert.Equal(t, []string{
		"https://example.com/software/greengrid",
		"https://example.com/software/medibot",
	}, links)
}

func TestExtractProjectLinksEmptyPage(t *testing.T) {
	assert.Empty(t, ExtractProjectLinks(`<div class="gallery"></div>`))
}

func TestExtractProjectInfo(t *testing.T) {
	t.Run("prefers opengraph tags", func(t *testing.T) {
		page := `<head>
			<title>fallback</title>
			<meta property="og:title" content="GreenGrid &amp; Friends" />
			<meta property="og:description" content=" Smart energy routing " />
		</head>`

		info := ExtractProjectInfo(page)
		assert.Equal(t, "GreenGrid & Friends", info.Title)
		assert.Equal(t, "Smart energy routing", info.Description)
	})

	t.Run("falls back to the title tag", func(t *testing.T) {
		page := `<head><title> MediBot | Devpost </title></head>`

		info := ExtractProjectInfo(page)
		assert.Equal(t, "MediBot | Devpost", info.Title)
		assert.Empty(t, info.Description)
	})

	t.Run("empty page yields empty info", func(t *testing.T) {
		info := ExtractProjectInfo("")
		assert.Empty(t, info.Title)
		assert.Empty(t, info.Description)
	})
}
