package render

// Section is one titled block of the rendered document. The same shape is
// what the JSON document loader reads back from content[].body.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Document struct {
	Content []Section `json:"content"`
}

// PageBreakAfter is the section title that ends the first page of the
// sample document.
const PageBreakAfter = "Capital of France"

// SampleDocument returns the fixed sections used to exercise the question
// answering endpoint.
func SampleDocument() Document {
	return Document{Content: []Section{
		{
			Title: "Artificial Intelligence",
			Body:  "Artificial Intelligence (AI) is the simulation of human intelligence in machines that are programmed to think like humans and mimic their actions. The term may also be applied to any machine that exhibits traits associated with a human mind such as learning and problem-solving.",
		},
		{
			Title: "Python Programming Language",
			Body:  "Python was developed by Guido van Rossum and first released in 1991. Python is known for its readability and simplicity, making it a popular choice for beginners and experts alike.",
		},
		{
			Title: PageBreakAfter,
			Body:  "The capital of France is Paris, a global center for art, fashion, gastronomy, and culture.",
		},
		{
			Title: "Additional Information",
			Body:  "This section contains additional information that may require more space. If the content here exceeds the current page, it will automatically flow to the next page.",
		},
		{
			Title: "Conclusion",
			Body:  "In conclusion, this document provides insights into various topics, demonstrating how multipage PDF generation works.",
		},
	}}
}
