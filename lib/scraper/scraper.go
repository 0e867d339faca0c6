// Package scraper holds the parts shared by every listing scraper.
//
// each listing scrape generally has this structure:
// 1. fetch the markup of a page.
// 2. transform the page into records with goquery selectors.
// 3. find the link to the next page, stop when there is none or it loops back.
//
// the site specific parts (selectors, url layout) live in lib/scrapers/*.
package scraper
