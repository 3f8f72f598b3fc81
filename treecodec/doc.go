// Package treecodec implements the serde Encoder and Decoder contracts
// over ir.Node trees, so that the serializers used for BSON documents
// can produce and consume trees directly.
package treecodec
