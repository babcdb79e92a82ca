// Package extract reads uploaded documents and splits their text into
// content chunks. A chunk is a blank-line separated block of text long enough
// to carry a topic; shorter blocks such as headers and page numbers are
// dropped.
package extract
