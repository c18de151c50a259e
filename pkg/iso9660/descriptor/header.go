package descriptor

import (
	"fmt"

	"github.com/bgrewell/dvd-kit/pkg/consts"
)

// VolumeDescriptorType represents the type of volume descriptor in the ISO9660 standard.
type VolumeDescriptorType byte

const (
	TYPE_BOOT_RECORD              VolumeDescriptorType = 0x00
	TYPE_PRIMARY_DESCRIPTOR       VolumeDescriptorType = 0x01
	TYPE_SUPPLEMENTARY_DESCRIPTOR VolumeDescriptorType = 0x02
	TYPE_PARTITION_DESCRIPTOR     VolumeDescriptorType = 0x03
	TYPE_TERMINATOR_DESCRIPTOR    VolumeDescriptorType = 0xFF
)

type VolumeDescriptorHeader struct {
	VolumeDescriptorType VolumeDescriptorType `json:"volume_descriptor_type"`
	// Standard Identifier is always 'CD001'.
	StandardIdentifier      string `json:"standard_identifier"`
	VolumeDescriptorVersion uint8  `json:"volume_descriptor_version"`
}

// Marshal converts the VolumeDescriptorHeader into its 7-byte on-disk representation.
func (vdh *VolumeDescriptorHeader) Marshal() [consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte {
	var buf [consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte
	buf[0] = byte(vdh.VolumeDescriptorType)
	copy(buf[1:6], padString(vdh.StandardIdentifier, 5))
	buf[6] = vdh.VolumeDescriptorVersion
	return buf
}

// Unmarshal parses the 7-byte header and checks the standard identifier.
func (vdh *VolumeDescriptorHeader) Unmarshal(data [consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte) error {
	vdh.VolumeDescriptorType = VolumeDescriptorType(data[0])
	vdh.StandardIdentifier = string(data[1:6])
	vdh.VolumeDescriptorVersion = data[6]

	if vdh.StandardIdentifier != consts.ISO9660_STD_IDENTIFIER {
		return fmt.Errorf("unexpected standard identifier: %q", vdh.StandardIdentifier)
	}
	return nil
}

// padString truncates or space fills s to exactly n bytes.
func padString(s string, n int) []byte {
	out := []byte(s)
	if len(out) > n {
		return out[:n]
	}
	for len(out) < n {
		out = append(out, consts.ISO9660_FILLER[0])
	}
	return out
}
