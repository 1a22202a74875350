package msh

import "github.com/mogaika/msh_browser/chunk"

var (
	tagHEDR = chunk.MakeTag("HEDR")
	tagMSH2 = chunk.MakeTag("MSH2")
	tagSINF = chunk.MakeTag("SINF")
	tagMATL = chunk.MakeTag("MATL")
	tagMATD = chunk.MakeTag("MATD")
	tagMODL = chunk.MakeTag("MODL")

	tagNAME = chunk.MakeTag("NAME")
	tagDATA = chunk.MakeTag("DATA")
	tagATRB = chunk.MakeTag("ATRB")
	tagTX0D = chunk.MakeTag("TX0D")
	tagTX1D = chunk.MakeTag("TX1D")
	tagTX2D = chunk.MakeTag("TX2D")
	tagTX3D = chunk.MakeTag("TX3D")

	tagMTYP = chunk.MakeTag("MTYP")
	tagMNDX = chunk.MakeTag("MNDX")
	tagPRNT = chunk.MakeTag("PRNT")
	tagFLGS = chunk.MakeTag("FLGS")
	tagTRAN = chunk.MakeTag("TRAN")
	tagGEOM = chunk.MakeTag("GEOM")
	tagSWCI = chunk.MakeTag("SWCI")

	tagSEGM = chunk.MakeTag("SEGM")
	tagMATI = chunk.MakeTag("MATI")
	tagPOSL = chunk.MakeTag("POSL")
	tagNRML = chunk.MakeTag("NRML")
	tagWGHT = chunk.MakeTag("WGHT")
	tagCLRL = chunk.MakeTag("CLRL")
	tagUV0L = chunk.MakeTag("UV0L")
	tagNDXL = chunk.MakeTag("NDXL")
	tagNDXT = chunk.MakeTag("NDXT")
	tagSTRP = chunk.MakeTag("STRP")
)
