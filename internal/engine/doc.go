// Package engine produces rendered bitmaps for the carousel.
//
// An Engine hands back the path of a display-ready BMP each time Next is
// called. TextEngine draws a poem from the content selector, repairs it when
// needed, and renders it through an HTML renderer; ImageEngine converts
// pictures from a directory. Both keep their output in a content cache keyed
// by logical name, so a title seen before is served from disk without
// rendering again. Engines never delete files.
package engine
