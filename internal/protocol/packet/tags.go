package packet

import "strconv"

// Tag identifies a packet type (RFC 4880 section 4.3).
type Tag uint8

const (
	TagReserved               Tag = 0
	TagPKESK                  Tag = 1
	TagSignature              Tag = 2
	TagSKESK                  Tag = 3
	TagOnePassSignature       Tag = 4
	TagSecretKey              Tag = 5
	TagPublicKey              Tag = 6
	TagSecretSubkey           Tag = 7
	TagCompressedData         Tag = 8
	TagSymmetricallyEncrypted Tag = 9
	TagMarker                 Tag = 10
	TagLiteralData            Tag = 11
	TagTrust                  Tag = 12
	TagUserID                 Tag = 13
	TagPublicSubkey           Tag = 14
	TagUserAttribute          Tag = 17
	TagSEIP                   Tag = 18
	TagModificationDetection  Tag = 19
	TagAEADEncryptedData      Tag = 20
	TagPadding                Tag = 21
)

var tagNames = map[Tag]string{
	TagReserved:               "Reserved",
	TagPKESK:                  "Public-Key Encrypted Session Key",
	TagSignature:              "Signature",
	TagSKESK:                  "Symmetric-Key Encrypted Session Key",
	TagOnePassSignature:       "One-Pass Signature",
	TagSecretKey:              "Secret Key",
	TagPublicKey:              "Public Key",
	TagSecretSubkey:           "Secret Subkey",
	TagCompressedData:         "Compressed Data",
	TagSymmetricallyEncrypted: "Symmetrically Encrypted Data",
	TagMarker:                 "Marker",
	TagLiteralData:            "Literal Data",
	TagTrust:                  "Trust",
	TagUserID:                 "User ID",
	TagPublicSubkey:           "Public Subkey",
	TagUserAttribute:          "User Attribute",
	TagSEIP:                   "Symmetrically Encrypted Integrity Protected Data",
	TagModificationDetection:  "Modification Detection Code",
	TagAEADEncryptedData:      "AEAD Encrypted Data",
	TagPadding:                "Padding",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "Unknown(" + strconv.Itoa(int(t)) + ")"
}
