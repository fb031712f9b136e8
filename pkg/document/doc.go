// Package document builds and serializes XMvn configuration fragments.
//
// A fragment is a namespaced <configuration> root, a provenance comment and
// exactly one rule:
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<configuration xmlns="http://fedorahosted.org/xmvn/CONFIG/0.6.0">
//		<!--XMvn configuration file generated by xmvnconf (part of javapackages-tools)-->
//		<artifactManagement>
//			<rule>
//				<artifactGlob>...</artifactGlob>
//				<files>
//					<file>usr/share/java/foo.jar</file>
//				</files>
//			</rule>
//		</artifactManagement>
//	</configuration>
//
// Rules are a closed set of variants (AliasRule, FileRule, PackageRule,
// CustomOption). Build turns a rule into a detached subtree without touching
// any document, so a rule can be validated before anything is persisted.
// Attach then places the subtree under a fresh document from New.
package document
