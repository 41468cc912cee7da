// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package canvas 定义可视化工作流的输入数据模型。

# 概述

canvas 包承载由可视化编辑器导出的原始工作流记录：按 Region（画布标签页）
分组的节点与连线。记录在导入时被解析为封闭的 NodeKind 变体集合，
供 compile 包做穷举匹配，避免下游逻辑反复比对原始类型字符串。

# 核心类型

  - Flow         — 一个完整的可视化工作流项目（多个 Region）
  - Region       — 画布标签页，含本页节点与连线
  - Node / Edge  — 原始节点与连线记录（含端口 handle）
  - NodeKind     — 封闭的节点类型变体集合
  - ContentTable — 外部内容引用 → 已解析内容的查找表

本包不做文件 I/O：字节的来源（磁盘、网络、内存）由调用方决定，
Import / Export 只负责 JSON 编解码与轻量结构校验。
*/
package canvas
