// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	slicec0hnEmt8X4D90e2GΔgJdSgΞΞ = ord.NewSliceSer[Chunk](ChunkMUS)
	slicethUΣHMtPqh0k42LqM1AJiQΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(v.Text, bs)
	return n + slicethUΣHMtPqh0k42LqM1AJiQΞΞ.Marshal(v.Vector, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Vector, n1, err = slicethUΣHMtPqh0k42LqM1AJiQΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = ord.String.Size(v.Text)
	return size + slicethUΣHMtPqh0k42LqM1AJiQΞΞ.Size(v.Vector)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = slicethUΣHMtPqh0k42LqM1AJiQΞΞ.Skip(bs[n:])
	n += n1
	return
}

var IndexSnapshotMUS = indexSnapshotMUS{}

type indexSnapshotMUS struct{}

func (s indexSnapshotMUS) Marshal(v IndexSnapshot, bs []byte) (n int) {
	n = ord.String.Marshal(v.Source, bs)
	n += ord.String.Marshal(v.Model, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n + slicec0hnEmt8X4D90e2GΔgJdSgΞΞ.Marshal(v.Chunks, bs[n:])
}

func (s indexSnapshotMUS) Unmarshal(bs []byte) (v IndexSnapshot, n int, err error) {
	v.Source, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Chunks, n1, err = slicec0hnEmt8X4D90e2GΔgJdSgΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s indexSnapshotMUS) Size(v IndexSnapshot) (size int) {
	size = ord.String.Size(v.Source)
	size += ord.String.Size(v.Model)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size + slicec0hnEmt8X4D90e2GΔgJdSgΞΞ.Size(v.Chunks)
}

func (s indexSnapshotMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicec0hnEmt8X4D90e2GΔgJdSgΞΞ.Skip(bs[n:])
	n += n1
	return
}
