package statussvc

import "encoding/binary"

// Key layout. Org ids are fixed-width big-endian so prefix scans stay
// bounded to one organization and iterate in id order.
//
//	svc/<org8>/<id8>  -> Service JSON
//	inc/<org8>/<id8>  -> Incident JSON
//	mnt/<org8>/<id8>  -> Maintenance JSON
//	seq/<kind>/<org8> -> uint64 counter

func be64(v int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return b[:]
}

func recordKey(kind string, orgID, id int64) []byte {
	k := make([]byte, 0, len(kind)+18)
	k = append(k, kind...)
	k = append(k, '/')
	k = append(k, be64(orgID)...)
	k = append(k, '/')
	return append(k, be64(id)...)
}

func recordPrefix(kind string, orgID int64) []byte {
	k := make([]byte, 0, len(kind)+10)
	k = append(k, kind...)
	k = append(k, '/')
	k = append(k, be64(orgID)...)
	return append(k, '/')
}

func seqKey(kind string, orgID int64) []byte {
	k := make([]byte, 0, len(kind)+13)
	k = append(k, "seq/"...)
	k = append(k, kind...)
	k = append(k, '/')
	return append(k, be64(orgID)...)
}

const (
	kindSvc = "svc"
	kindInc = "inc"
	kindMnt = "mnt"
)
