package services

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFInfoService inspects uploaded PDFs. Page counts feed document metadata
// and the page-bounds validation on highlights and flashcards.
type PDFInfoService struct{}

func NewPDFInfoService() *PDFInfoService {
	return &PDFInfoService{}
}

func (s *PDFInfoService) PageCount(path string) (int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := reader.NumPage()
	if pages < 1 {
		return 0, fmt.Errorf("PDF has no pages")
	}
	return pages, nil
}
