package consts

const (
	// Size of a DVD logical block and of an ISO9660 logical sector.
	DVD_VIDEO_LB_LEN = 2048

	// Blocks moved per transfer when writing to a file (1 MiB).
	DVD_COPY_BLOCK_LIMIT = 512

	// Blocks moved per transfer when streaming to stdout.
	DVD_CAT_BLOCK_LIMIT = 1

	// Highest chapter number accepted on the command line.
	DVD_MAX_CHAPTERS = 99

	// Title VOBs are split into at most nine files per title set.
	DVD_MAX_VOB_PARTS = 9

	// Default filename pattern for extracted tracks.
	DVD_DEFAULT_OUTPUT_PATTERN = "dvd_track_%02d.vob"

	// Default optical device.
	DVD_DEFAULT_DEVICE = "/dev/dvd"

	// IFO identifiers.
	DVD_VMG_IDENTIFIER = "DVDVIDEO-VMG"
	DVD_VTS_IDENTIFIER = "DVDVIDEO-VTS"

	// Directory holding the navigation and video object files.
	DVD_VIDEO_TS = "VIDEO_TS"

	// Number of system area sectors.
	ISO9660_SYSTEM_AREA_SECTORS = 16

	// Standard ISO9660 identifier.
	ISO9660_STD_IDENTIFIER = "CD001"

	// ISO9660 volume descriptor version (always 1).
	ISO9660_VOLUME_DESC_VERSION = 1

	// ISO9660 default sector size.
	ISO9660_SECTOR_SIZE = 2048

	// ISO9660 volume descriptor header size
	ISO9660_VOLUME_DESC_HEADER_SIZE = 7

	// Separators allowed by ISO9660 0x2E and 0x3B.
	ISO9660_SEPARATOR_1 = "."
	ISO9660_SEPARATOR_2 = ";"

	// ISO9660 Filler 0x20 (space)
	ISO9660_FILLER = " "
)
