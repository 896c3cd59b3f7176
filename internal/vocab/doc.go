// Package vocab maps text to the dense symbol indices a network is trained
// on and back.
//
// Two vocabularies are provided:
//   - Chars: one symbol per distinct byte, in first-seen order
//   - TikToken: BPE tokens from pkoukk/tiktoken-go, compacted so that only
//     tokens present in the training corpus get an index
//
// Example usage:
//
//	v := vocab.NewChars(text)
//	stream, err := v.Encode(text)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// stream[i] is in [0, v.Size())
//
// Vocabularies are persisted with Marshal and Unmarshal so that a trained
// model can be reloaded together with its symbol table.
package vocab
