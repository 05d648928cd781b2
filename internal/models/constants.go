package models

const (
	MetaSource = "source"
	MetaPage   = "page"
	MetaChunk  = "chunk_id"

	AnswerErrorPrefix = "Error generating answer: "
)

var (
	// RAGPromptTemplate is a Go template with .context and .question.
	RAGPromptTemplate = `You are an assistant for question-answering tasks. Use the following pieces of retrieved context to answer the question. If you don't know the answer, just say that you don't know. Use three sentences maximum and keep the answer concise.
Question: {{.question}}
Context: {{.context}}
Answer:`

	ContextSeparator = "\n\n"
)
