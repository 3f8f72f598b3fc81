// Package stream splits a byte stream of concatenated BSON documents,
// arriving in chunks of any size, into whole documents.
//
// A Splitter is the push side: bytes are written to it as they arrive and
// complete documents are taken out with Next. Split and Documents wrap a
// Splitter as pull iterators over a chunk source:
//
//	for node, err := range stream.ReadDocuments(ctx, conn, mapper) {
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	}
//
// Documents are yielded in arrival order. Breaking out of the loop stops
// reading from the source. When the source ends with bytes of an
// incomplete document pending, a *TruncatedStreamError is yielded.
package stream
