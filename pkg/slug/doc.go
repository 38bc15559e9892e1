// Package slug turns titles into URL-safe identifiers.
//
// Diacritics are folded to their ASCII base letters with golang.org/x/text,
// every run of other characters becomes a separator and the result is
// lowercased:
//
//	slug.Make("Café & Restaurant") // "cafe-restaurant"
//	slug.Make("Product Name", slug.Separator("_")) // "product_name"
//
// Generate is the variant used for article and category slugs. It first cuts
// long titles at the last word boundary within 32 characters:
//
//	slug.Generate("A very long article title that keeps going") // "a-very-long-article-title-that"
package slug
