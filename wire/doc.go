// Package wire adapts BSON readers and writers to the serde Encoder and
// Decoder contracts.
//
// Framing follows the BSON specification: a document starts with its
// total length as a little-endian int32, prefix included, and ends with a
// 0x00 byte. A Factory creates readers over complete documents and
// writers producing them, either in binary form (Binary) or as MongoDB
// Extended JSON (ExtJSON).
//
// BSON types without a direct tree analog are mapped to tagged tree
// values, see the Tag constants of package ir:
//
//	binary             String (base64)        !binary, !binary(subtype)
//	undefined          Null                   !undefined
//	objectId           String (hex)           !oid
//	datetime           Number (ms)            !datetime
//	regex              {pattern, options}     !regex
//	dbPointer          {ns, id}               !dbpointer
//	javascript         String                 !javascript
//	symbol             String                 !symbol
//	code w/ scope      {code, scope}          !codewithscope
//	timestamp          {t, i}                 !timestamp
//	int64              Number                 !int64
//	decimal128         Number (text)          !decimal128
//	minKey, maxKey     Null                   !minkey, !maxkey
//
// Writing a tree honours these tags, so a document read generically and
// written back is reproduced byte for byte.
package wire
