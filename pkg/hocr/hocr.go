// Package hocr parses hOCR, the HTML based format tesseract and other OCR
// engines use to report recognized text together with word positions and
// confidences.
//
// The package keeps the part of the hOCR hierarchy lab report extraction
// needs: Document → Pages → Lines → Words. Areas and paragraphs are flattened
// away, their lines are kept in document order.
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: Represents a single page with class 'ocr_page'
// - Line: Represents a line of text with class 'ocr_line' (or a tesseract
// header, caption or floating text line)
// - Word: Represents a single word with class 'ocrx_word'
// - BoundingBox: Represents a rectangle with coordinates for positioning elements
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR data from HTML into the object model
// - (HOCR).Text: Reading order text, one line per hOCR line
// - (HOCR).Words: All words in reading order
package hocr
