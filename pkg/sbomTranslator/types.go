package sbomTranslator

import (
	"github.com/anchore/syft/syft/pkg"
)

const osPackageManager = "Os"

// packageManagers names the ecosystem of every syft package type a PURL can
// resolve to. Types missing here have no package manager.
var packageManagers = map[pkg.Type]string{
	pkg.ApkPkg:                  osPackageManager,
	pkg.DebPkg:                  osPackageManager,
	pkg.RpmPkg:                  osPackageManager,
	pkg.AlpmPkg:                 "Alpm",
	pkg.PortagePkg:              "Portage",
	pkg.NixPkg:                  "Nix",
	pkg.GemPkg:                  "Ruby",
	pkg.NpmPkg:                  "Npm",
	pkg.PythonPkg:               "Python",
	pkg.PhpComposerPkg:          "Php",
	pkg.PhpPeclPkg:              "Php",
	pkg.JavaPkg:                 "Maven",
	pkg.JenkinsPluginPkg:        "JenkinsPlugin",
	pkg.GoModulePkg:             "Go",
	pkg.DotnetPkg:               "Nuget",
	pkg.CocoapodsPkg:            "Ios",
	pkg.ConanPkg:                "Cpp",
	pkg.HackagePkg:              "Hackage",
	pkg.RustPkg:                 "Rust",
	pkg.KbPkg:                   "Kb",
	pkg.DartPubPkg:              "DartPub",
	pkg.Rpkg:                    "R",
	pkg.BinaryPkg:               "Binary",
	pkg.BitnamiPkg:              "Bitnami",
	pkg.ErlangOTPPkg:            "Erlang",
	pkg.HexPkg:                  "Hex",
	pkg.GithubActionPkg:         "GithubAction",
	pkg.GithubActionWorkflowPkg: "GithubAction",
	pkg.LinuxKernelPkg:          "LinuxKernel",
	pkg.LinuxKernelModulePkg:    "LinuxKernel",
	pkg.OpamPkg:                 "Opam",
	pkg.LuaRocksPkg:             "LuaRocks",
	pkg.SwiplPackPkg:            "SwiplPack",
	pkg.TerraformPkg:            "Terraform",
}

// packageManagerFromPURL classifies a component by the ecosystem of its PURL.
// Unknown or unparsable PURLs yield an empty string.
func packageManagerFromPURL(purl string) string {
	if purl == "" {
		return ""
	}
	return packageManagers[pkg.TypeFromPURL(purl)]
}
