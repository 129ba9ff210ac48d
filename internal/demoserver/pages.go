package demoserver

import "net/http"

// Page is one deterministic demo page: the same status, headers and markup
// on every request.
type Page struct {
	Path        string
	Description string
	Status      int
	ContentType string
	Headers     map[string]string
	HTML        string
}

// GetAllPages returns all fixed demo page definitions.
func GetAllPages() []Page {
	return []Page{
		getHomePage(),
		getArticlesPage(),
		getEmptyPage(),
		getMissingPage(),
	}
}

// ===== HOME PAGE =====
func getHomePage() Page {
	return Page{
		Path:        "/",
		Description: "Article list, the selector playground",
		Status:      http.StatusOK,
		HTML: `<!DOCTYPE html>
<html>
<head>
    <title>The Daily Scrape</title>
</head>
<body>
    <h1>The Daily Scrape</h1>
    <nav>
        <a class="nav" href="/">Home</a>
        <a class="nav" href="/articles">Articles</a>
        <a class="nav" href="/missing">Archive</a>
    </nav>
    <main>
        <article class="post featured">
            <h2>Hello <b>World</b></h2>
            <p>Every scraper's first page.</p>
        </article>
        <article class="post">
            <h2>Parsing without tears</h2>
            <p>Lenient trees for messy markup.</p>
        </article>
        <article class="post draft">
            <h2>Redirects, retries and you</h2>
            <p>What happens when the network blinks.</p>
        </article>
        <aside>Not an article.</aside>
    </main>
</body>
</html>`,
	}
}

// ===== ARTICLES PAGE =====
func getArticlesPage() Page {
	return Page{
		Path:        "/articles",
		Description: "Attribute-rich links for attribute extraction",
		Status:      http.StatusOK,
		HTML: `<!DOCTYPE html>
<html>
<head>
    <title>Articles</title>
</head>
<body>
    <h1>All articles</h1>
    <ul class="articles">
        <li><a class="article-link" href="/articles/1" data-id="1" data-topic="parsing">Trees from tag soup</a></li>
        <li><a class="article-link" href="/articles/2" data-id="2" data-topic="http">Headers that open doors</a></li>
        <li><a class="article-link external" href="https://example.com/elsewhere" data-id="3">Elsewhere on the web</a></li>
    </ul>
</body>
</html>`,
	}
}

// ===== EMPTY PAGE =====
func getEmptyPage() Page {
	return Page{
		Path:        "/empty",
		Description: "200 with a blank body",
		Status:      http.StatusOK,
		HTML:        "",
	}
}

// ===== MISSING PAGE =====
func getMissingPage() Page {
	return Page{
		Path:        "/missing",
		Description: "404 that still carries an HTML body",
		Status:      http.StatusNotFound,
		HTML: `<!DOCTYPE html>
<html>
<head>
    <title>404 - Nothing here</title>
</head>
<body>
    <h1>Nothing here</h1>
    <p class="apology">The page you were scraping has moved on.</p>
</body>
</html>`,
	}
}
